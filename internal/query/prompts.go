package query

import "fmt"

// Character budgets for the document context embedded in each prompt.
const (
	maxAnalysisContext = 40000
	maxChatContext     = 20000
)

const analysisSystemPrompt = `You are an expert legal AI. Analyze the contract text supplied by the user.

INSTRUCTIONS:
1. Identify the TOP 3 SUBSTANTIAL LEGAL RISKS.
2. For each risk, the "quote" field MUST be a verbatim excerpt copied from the contract text. Do not paraphrase, correct, or invent quoted text.
3. STRICTLY IGNORE OCR errors, typos, or spacing artifacts. Do not report these as risks.
4. Detect the language of the contract. Write explanations in the SAME language.
5. Return ONLY valid JSON matching this shape, no markdown fences:
{"risks":[{"quote":"verbatim excerpt","explanation":"concise legal explanation"}]}
6. If fewer than 3 substantial risks exist, return fewer entries. Never invent risks to reach 3.`

const chatSystemPrompt = `You are a legal assistant answering questions about one contract.

RULES:
1. Answer ONLY from the contract context below. Use no outside knowledge.
2. If the answer is not present in the contract, reply exactly: "Not found in the document."
3. Do not use markdown formatting.
4. Ignore OCR errors in the text.`

const rewriteSystemPrompt = `Act as a senior lawyer. Rewrite the clause supplied by the user to be favorable to the Client.

RULES:
1. Output ONLY the rewritten paragraph.
2. Use professional legal language.
3. Do not use markdown formatting.`

// buildAnalysisPrompt bounds the contract text and frames the analysis request.
func buildAnalysisPrompt(documentText string) string {
	return fmt.Sprintf("Contract:\n%s", truncate(documentText, maxAnalysisContext))
}

// buildChatPrompt embeds the bounded contract context and the user question.
func buildChatPrompt(documentText, userQuery string) string {
	return fmt.Sprintf("Contract context:\n%s\n\nUser question: %s",
		truncate(documentText, maxChatContext), userQuery)
}

// buildRewritePrompt frames the clause for rewriting.
func buildRewritePrompt(clause string) string {
	return fmt.Sprintf("Original clause:\n%q", clause)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
