package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cellgit/BearBasic/internal/dispatch"
	"github.com/cellgit/BearBasic/internal/envelope"
	"github.com/cellgit/BearBasic/internal/jsonvalue"
	"github.com/cellgit/BearBasic/internal/request"
)

// getCmd performs a GET and prints result.data
func getCmd(c *cli) *cobra.Command {
	var query map[string]string
	var noAuth bool

	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "GET an API path and print the unwrapped data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := request.Target{
				Method:   http.MethodGet,
				Path:     args[0],
				Task:     request.URLParams(stringParams(query)),
				SkipAuth: noAuth,
			}
			return c.call(cmd, target)
		},
	}

	cmd.Flags().StringToStringVarP(&query, "query", "q", nil, "query parameters (k=v,k2=v2)")
	cmd.Flags().BoolVar(&noAuth, "no-auth", false, "omit the Authorization header")
	return cmd
}

// postCmd performs a POST with a JSON or form body
func postCmd(c *cli) *cobra.Command {
	var body string
	var form bool
	var noAuth bool

	cmd := &cobra.Command{
		Use:   "post <path>",
		Short: "POST to an API path and print the unwrapped data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseJSONObject(body)
			if err != nil {
				return err
			}
			target := request.Target{
				Method:   http.MethodPost,
				Path:     args[0],
				Task:     request.Params(params, !form),
				SkipAuth: noAuth,
			}
			return c.call(cmd, target)
		},
	}

	cmd.Flags().StringVar(&body, "json", "{}", "request parameters as a JSON object")
	cmd.Flags().BoolVar(&form, "form", false, "send parameters url-encoded instead of as JSON")
	cmd.Flags().BoolVar(&noAuth, "no-auth", false, "omit the Authorization header")
	return cmd
}

// uploadCmd sends a file as multipart/form-data
func uploadCmd(c *cli) *cobra.Command {
	var fields map[string]string
	var fileName string
	var mimeType string

	cmd := &cobra.Command{
		Use:   "upload <path> <file>",
		Short: "Upload a file as the multipart field \"file\"",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := request.Target{
				Method: http.MethodPost,
				Path:   args[0],
				Task:   request.UploadWithParams(args[1], fileName, mimeType, stringParams(fields)),
			}
			return c.call(cmd, target)
		},
	}

	cmd.Flags().StringToStringVarP(&fields, "field", "f", nil, "extra form fields (k=v,k2=v2)")
	cmd.Flags().StringVar(&fileName, "name", "", "file name sent to the server (default: base name)")
	cmd.Flags().StringVar(&mimeType, "mime", "", "content type (default: from extension)")
	return cmd
}

// codesCmd lists the known business codes
func codesCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "codes",
		Short:       "List known business error codes",
		Annotations: map[string]string{"offline": "true"},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, code := range dispatch.Codes() {
				msg, _ := dispatch.Message(code)
				fmt.Fprintf(out, "%-6d %s\n", code, msg)
			}
		},
	}
}

func (c *cli) call(cmd *cobra.Command, target request.Target) error {
	resp, err := c.sdk.Client.FetchUntyped(cmd.Context(), target)
	if err != nil {
		if code, msg, ok := envelope.CodeOf(err); ok {
			return fmt.Errorf("%s %s: code %d: %s", target.Method, target.Path, code, dispatch.Describe(code, msg))
		}
		return fmt.Errorf("%s %s: %w", target.Method, target.Path, err)
	}
	return printResponse(cmd.OutOrStdout(), resp)
}

func printResponse(w io.Writer, resp envelope.Response[jsonvalue.Object]) error {
	raw, err := json.MarshalIndent(resp.Data, "", "  ")
	if err != nil {
		return fmt.Errorf("format data: %w", err)
	}
	if resp.Message != "" {
		fmt.Fprintf(w, "# %s\n", resp.Message)
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}

func parseJSONObject(s string) (map[string]any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var params map[string]any
	if err := dec.Decode(&params); err != nil {
		return nil, fmt.Errorf("parse --json: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("parse --json: trailing data after object")
	}
	if params == nil {
		return nil, fmt.Errorf("parse --json: want a JSON object")
	}
	return params, nil
}

func stringParams(m map[string]string) map[string]any {
	params := make(map[string]any, len(m))
	for k, v := range m {
		params[k] = v
	}
	return params
}
