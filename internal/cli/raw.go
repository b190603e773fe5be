package cli

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"railctl/internal/cli/appctx"
	"railctl/internal/parse"
)

var rawCmd = &cobra.Command{
	Use:   "raw <endpoint>",
	Short: "Call an arbitrary API endpoint",
	Long: `Sends a request to any API v2 endpoint and prints the raw response.
This is the escape hatch for endpoints without a typed command.

The endpoint is the fragment after /api/v2/, e.g. get_case/5. The
method defaults to GET, or POST once --data is given. --data takes
inline JSON or @file.

Examples:
  railctl raw get_case/5
  railctl raw get_cases/1 --param suite_id=3 --param priority_id=4
  railctl raw add_section/1 --data '{"name": "Imports"}'
  railctl raw update_case/5 --data @case.json`,
	Args: cobra.ExactArgs(1),
	RunE: appctx.WithApp(appctx.DefaultOptions(), runRaw),
}

var (
	rawMethod string
	rawParams []string
	rawData   string
)

func init() {
	rootCmd.AddCommand(rawCmd)

	rawCmd.Flags().StringVarP(&rawMethod, "method", "X", "", "HTTP method (default GET, or POST with --data)")
	rawCmd.Flags().StringArrayVar(&rawParams, "param", nil, "Query parameter as key=value (repeatable)")
	rawCmd.Flags().StringVarP(&rawData, "data", "d", "", "JSON request body, inline or @file")
}

func runRaw(app *appctx.App, cmd *cobra.Command, args []string) error {
	params := url.Values{}
	for _, pair := range rawParams {
		key, value, err := parse.ParseKeyValue(pair)
		if err != nil {
			return err
		}
		params.Add(key, value)
	}

	var body []byte
	if rawData != "" {
		if strings.HasPrefix(rawData, "@") {
			data, err := os.ReadFile(rawData[1:])
			if err != nil {
				return fmt.Errorf("read request body: %w", err)
			}
			body = data
		} else {
			body = []byte(rawData)
		}
	}

	method := rawMethod
	if method == "" {
		method = "GET"
		if len(body) > 0 {
			method = "POST"
		}
	}

	data, err := app.Client.Call(cmd.Context(), method, args[0], params, body)
	if err != nil {
		return err
	}
	return app.Out.RenderRaw(data)
}
