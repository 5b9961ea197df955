// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data, similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Snippet is a persisted unit of shared code plus its display metadata.
//
// Language and Theme are opaque strings. The service never checks them against
// a fixed list: whatever the editor sends is stored and echoed back verbatim.
//
// A Snippet is immutable once stored; there is no update or delete path.
type Snippet struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Language  string    `json:"language"`
	Theme     string    `json:"theme"`
	CreatedAt time.Time `json:"createdAt"`
}

// Default is the sample the editor loads before anything is shared.
type Default struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Theme    string `json:"theme"`
}

const (
	DefaultLanguage = "html"
	DefaultTheme    = "vs-dark"
)

// DefaultCode is the constant HTML document served by GET /api/snippets/default.
const DefaultCode = `<html>
<head>
  <title>HTML Sample</title>
  <style>
    h1 { color: #cca3a3; }
  </style>
  <script>
    console.log("Sample loaded");
  </script>
</head>
<body>
  <h1>Heading No.1</h1>
  <input disabled type="button" value="Click me" />
</body>
</html>`

// DefaultSnippet is returned by value so callers can't mutate a shared copy.
func DefaultSnippet() Default {
	return Default{
		Code:     DefaultCode,
		Language: DefaultLanguage,
		Theme:    DefaultTheme,
	}
}
