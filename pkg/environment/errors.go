package environment

import "strings"

// RequiredEnvError lists variables no provider could supply.
type RequiredEnvError struct {
	Missing []string
}

var _ error = &RequiredEnvError{}

func (e *RequiredEnvError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Missing, ", ")
}

// Hint tells the user where the variables can be set.
func (e *RequiredEnvError) Hint() string {
	return "export them in your shell, add them to a .env file, or pass --env-file"
}
