// Package generation defines the boundary between the application core and
// external language model services. A Summarizer turns a prompt into summary
// text; implementations live under internal/platform (Gemini, OpenAI).
package generation
