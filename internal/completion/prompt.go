package completion

import "fmt"

const systemPrompt = `You are an English dictionary. Respond ONLY with valid JSON containing these fields: "Term", "Type", "Definition", "Vietnamese", "IPA", "Examples" (array), "Synonyms" (array), "Antonyms" (array). Use the EXACT term provided by user, do not lemmatize. Provide three examples using the EXACT term in bold. Do not include any explanations or text outside the JSON.`

// userPrompt names the exact term three times; models drift to the lemma
// otherwise.
func userPrompt(req Request) string {
	return fmt.Sprintf(`The definition and Type are in %[1]s. Vietnamese translation is required. Use the EXACT term "%[2]s" in all fields and examples.
Term: %[2]s
Context: %[3]s
Please include:
- Term: "%[2]s" (use exact term, do not change)
- Definition in %[1]s
- Vietnamese translation (always required)
- Type (Part of speech)
- Synonyms (array of similar words)
- Antonyms (array of opposite words)
- Examples with the EXACT term "%[2]s" in bold`, req.TargetLanguage, req.Term, req.Context)
}
