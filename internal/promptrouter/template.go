// Package promptrouter builds the router LLM's classification request and
// parses its reply back into a routing decision.
package promptrouter

import "unicode/utf8"

// MaxTokenLen bounds the estimated token length of the emitted prompt.
const MaxTokenLen = 2048

// promptTemplate is the router prompt, reproduced verbatim down to the
// surrounding blank lines. {routes} and {conversation} are substituted by
// BuildRequest.
const promptTemplate = "\nYou are a helpful assistant designed to find the best suited route.\nYou are provided with route description within <routes></routes> XML tags:\n<routes>\n{routes}\n</routes>\n\n<conversation>\n{conversation}\n</conversation>\n\nYour task is to decide which route is best suit with user intent on the conversation in <conversation></conversation> XML tags.  Follow the instruction:\n1. If the latest intent from user is irrelevant or user intent is full filled, response with other route {\"route\": \"other\"}.\n2. You must analyze the route descriptions and find the best match route for user latest intent.\n3. You only response the name of the route that best matches the user's request, use the exact name in the <routes></routes>.\n\nBased on your analysis, provide your response in the following JSON formats if you decide to match any route:\n{\"route\": \"route_name\"}\n"

// estimateTokens approximates token count as character count / 4, the same
// provider-agnostic heuristic used throughout the router: cheap, and
// deliberately not a real tokenizer.
func estimateTokens(s string) int {
	return utf8.RuneCountInString(s) / 4
}
