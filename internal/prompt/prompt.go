// Package prompt builds the text sent to the completion service.
package prompt

import "fmt"

// factTemplate is appended to the user input when a fact is available.
const factTemplate = "\n\n[Consider this fact: %s]"

// Compose returns input unchanged when fact is empty, otherwise input
// followed by a bracketed fact annotation.
func Compose(input, fact string) string {
	if fact == "" {
		return input
	}
	return input + fmt.Sprintf(factTemplate, fact)
}
