// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"fmt"
	"regexp"
	"strings"
)

// queryJunk matches characters the search index chokes on when a synthesized
// query echoes quoting or markdown from the model.
var queryJunk = regexp.MustCompile("[\"\\[\\]`]")

// sanitizeQuery strips quoting and markdown characters from a synthesized
// search query.
func sanitizeQuery(q string) string {
	return strings.TrimSpace(queryJunk.ReplaceAllString(q, ""))
}

func summaryPrompt(text string) string {
	return fmt.Sprintf(`Briefly convey the scientific essence of the text (2-3 sentences):
- research object,
- main process,
- conditions of change,
- conclusion.
Text:
%s`, text)
}

func plagiarismQueryPrompt(text string) string {
	return fmt.Sprintf(`You are a scientific search expert.
Based on the following text, generate ONE concise but highly precise English bibliographic search query
to find thematically similar articles.

Use key concepts: model organism, enzyme, process, stress factors.
Use English only. Do not add explanations - only the query.
Example of a good query:
Arabidopsis thaliana senescence beta-galactosidase photosynthesis drought stress

Text:
%s`, text)
}

func doppelgangerQueryPrompt(text string) string {
	return fmt.Sprintf(`You are a cross-disciplinary scientific search expert.
Create a concise English bibliographic query that captures the core conceptual pattern of the text -
not specific terms like species or stress types, but general dynamics:
e.g., "nonlinear response during transition phase", "interaction of sequential perturbations", "emergent behavior after system reset".

Avoid domain-specific nouns. Focus on universal scientific concepts: system dynamics, phase transition, perturbation response, adaptive window.

Return ONLY the query. No explanations.

Text: %s`, text)
}

func similarityPrompt(summaryA, summaryB string) string {
	return fmt.Sprintf(`Rate the semantic similarity of two scientific summaries. Respond ONLY with a JSON object: {"score": 0.0}.
Summary 1: %s
Summary 2: %s`, summaryA, summaryB)
}

func reasonPrompt(summaryA, summaryB string) string {
	return fmt.Sprintf(`Explain in 1-2 sentences in English why these two texts are semantically similar (shared object, process, conditions, or conclusions).
Your text: %s
Article: %s`, summaryA, summaryB)
}

func verdictPrompt(original, candidate string) string {
	return fmt.Sprintf(`Analyze two scientific texts and respond strictly in the following format - three separate lines:

Line 1: "Yes" or "No"
Line 2: Scientific domain of the candidate (e.g., neuroscience, sociology, materials science, machine learning)
Line 3: 1-2 sentences in English: why the works are (or are not) doppelgangers. Describe similarity in logic, pattern, or concept - despite different objects or disciplines.

Original text:
%s

Candidate:
%s`, original, candidate)
}

func rankPrompt(original, digest string) string {
	return fmt.Sprintf(`Below are scientific papers identified as doppelgangers to the original text.
Select the TOP-3 most significant ones - those where the analogy:
- is deepest (not superficial),
- offers the greatest potential for interdisciplinary breakthrough,
- or clearly reflects the same conceptual structure.

Respond in this format:
TOP-1: [number from list]
TOP-2: [number]
TOP-3: [number]

Justification (2-3 sentences in English): why these three papers are stronger than the others?

Original text:
%s

Candidates:
%s`, original, digest)
}
