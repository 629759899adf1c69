package rag

import "fmt"

// NoContextAnswer is returned verbatim when retrieval produces nothing.
// It is a normal answer, not an error, and no generation call is made.
const NoContextAnswer = "I couldn't find any relevant information in the ingested filings."

const systemPrompt = `You are a Senior Risk Analyst at a quantitative investment firm.
Use the provided CONTEXT (excerpts from SEC filings) to answer the question.
If the answer is not in the context, admit you don't know. Do not hallucinate.
Keep the answer professional and concise.`

const userPromptTemplate = `CONTEXT FROM SEC FILINGS:
%s

USER QUESTION:
%s`

func buildUserPrompt(contextBlock, question string) string {
	return fmt.Sprintf(userPromptTemplate, contextBlock, question)
}
