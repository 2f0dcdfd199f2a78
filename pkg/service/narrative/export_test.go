package narrative

// BuildUserPrompt is exported for testing
var BuildUserPrompt = buildUserPrompt
