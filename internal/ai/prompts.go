package ai

import "fmt"

// FactCheckPrompt builds the prompt for verifying a highlighted passage.
func FactCheckPrompt(text, context string) string {
	return fmt.Sprintf(`Please fact-check the following text. If it contains historical facts, figures or claims, verify their accuracy and provide relevant background.

Selected text:
%s

Context:
%s

Please provide:
1. An accuracy assessment of the main factual claims
2. Relevant historical background or supplementary information
3. Any errors or points of contention, with explanation`, text, context)
}

// DiscussionPrompt builds the prompt for open-ended discussion of a passage.
func DiscussionPrompt(text, context string) string {
	return fmt.Sprintf(`Please analyse and discuss the following text in depth.

Selected text:
%s

Context:
%s

Please provide:
1. The core arguments and claims of the text
2. Possible alternative readings
3. Questions worth reflecting on
4. Connections to other viewpoints or theories`, text, context)
}
