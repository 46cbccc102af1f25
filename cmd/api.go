package cmd

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/staffeli/canvas"
	"github.com/s0up4200/staffeli/entity"
	"github.com/s0up4200/staffeli/format"
)

var apiCmd = &cobra.Command{
	Use:   "api <METHOD> <path> [key value]...",
	Short: "Make a raw Canvas API call",
	Long: `Call the Canvas API directly and print the response as JSON.

GET requests follow pagination and print every item. Other methods make one
request. The path is relative to /api/v1, for example:

  staffeli api GET courses
  staffeli api POST courses/42/sections "course_section[name]" "Hold 3"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
	method := strings.ToUpper(args[0])
	path := strings.TrimPrefix(args[1], "/")

	params, err := pairArgs(args[2:])
	if err != nil {
		return err
	}

	var result any
	switch method {
	case http.MethodGet:
		result, err = client.FetchAll(cmd.Context(), method, path, params)
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		result, err = client.Call(cmd.Context(), method, path, params)
	default:
		return fmt.Errorf("%w: unsupported method %q", entity.ErrUsage, args[0])
	}
	if err != nil {
		return err
	}
	return format.JSON(cmd.OutOrStdout(), result)
}

// pairArgs turns "k1 v1 k2 v2" into request arguments.
func pairArgs(kv []string) (canvas.Args, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("%w: arguments must come in key value pairs, %q has no value", entity.ErrUsage, kv[len(kv)-1])
	}
	var args canvas.Args
	for i := 0; i < len(kv); i += 2 {
		args = args.Add(kv[i], kv[i+1])
	}
	return args, nil
}
