package sources

// YouTube implementation is split across files by responsibility:
//   youtube_url.go        video id extraction from watch, short and embed links
//   youtube_innertube.go  Innertube API types, constants, and low-level HTTP primitives
//   youtube_page.go       watch page fetching (plain HTTP, stealth fallback) and metadata
//   youtube_transcript.go transcript fetching (page scrape, engagement panel, ANDROID player)
