package azure

// keywordSystemPrompt instructs the chat deployment to answer with a bare
// JSON array of keyword strings and nothing else. Keyword quality depends
// on the deployment honoring JSON mode, so the prompt restates the shape
// and shows one example.
const keywordSystemPrompt = `Extract search keywords from the given document and return them as JSON.

Output ONLY a valid JSON array of strings. Do not include any preamble,
explanation, greeting, or acknowledgment. Start your response directly with
the opening bracket [ and end with the closing bracket ].

Rules:
- Each keyword is a short noun phrase a user might type into a search box.
- Prefer terms that appear in the document; include obvious synonyms.
- Return between 3 and 15 keywords. Fewer is fine for very short documents.
- If no keywords can be identified, return [].
- The JSON must parse without errors; no trailing commas and no extraneous
  text outside the array.

Example:
Input: "Our premium plan includes priority support and a 99.9% uptime SLA."
Output:
["premium plan", "priority support", "uptime SLA", "service level agreement"]`
