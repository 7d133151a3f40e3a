package engine

// LLM prompt templates: data only, no logic.

// summaryPrompt asks for a Markdown summary of one chunk.
// Args: content type, capitalized content type, chunk.
const summaryPrompt = `Please provide a comprehensive and well-structured summary of the following %s.

Requirements:
- Create a clear, concise summary that captures all key points
- Use bullet points and headings for better organization
- Maintain the logical flow of information
- Include important details, concepts, and takeaways
- Format using Markdown for better readability

%s content:
%s`

// mergeSummaryPrompt reconciles per-chunk summaries into one document.
// Args: numbered list of chunk summaries.
const mergeSummaryPrompt = `Please create a unified, comprehensive summary from these individual summaries:

%s

Combine them into a single, well-organized summary that eliminates redundancy and maintains all important information.`

// mcqPrompt asks for multiple-choice questions about one chunk.
// Args: question count, chunk.
const mcqPrompt = `Create %d multiple-choice questions based on the following content.

Requirements:
- Each question should test understanding of key concepts
- Provide exactly 4 options (A, B, C, D) for each question
- Make sure only one option is clearly correct
- Include varied difficulty levels
- Clearly indicate the correct answer

Format each question as:
**Question X:** [Question text]
A) [Option A]
B) [Option B]
C) [Option C]
D) [Option D]
**Correct Answer:** [Letter]

Content:
%s`

// flashcardPrompt asks for study flashcards about one chunk.
// Args: card count, chunk.
const flashcardPrompt = `Create %d flashcards based on the following content.

Requirements:
- Cover key concepts, definitions, and important facts
- Each flashcard should have a clear question/term and comprehensive answer/definition
- Make them suitable for studying and memorization
- Vary the types (definitions, concepts, facts, processes)

Format each flashcard as:
**Card X:**
**Front:** [Question/Term]
**Back:** [Answer/Definition]

Content:
%s`
