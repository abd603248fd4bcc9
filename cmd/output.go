package cmd

import (
	"encoding/json"
	"fmt"
	"os"
)

// printJSON writes v to stdout; logs go to stderr.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}
