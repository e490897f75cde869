package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/reglet-dev/nativefn/application/schema"
	"github.com/reglet-dev/nativefn/exports"
	"github.com/reglet-dev/nativefn/wireformat"
	"github.com/spf13/cobra"
)

// Invocation paths accepted by --via.
const (
	viaDirect = "direct"
	viaBytes  = "bytes"
	viaWasm   = "wasm"
)

func newListCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered functions and their arity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, state, func(_ context.Context, sess *session) error {
				for _, fn := range sess.executor.Registry().Functions() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", fn.Name, fn.Arity())
				}
				return nil
			})
		},
	}
}

func newInvokeCmd(state *cliState) *cobra.Command {
	var via string

	cmd := &cobra.Command{
		Use:   "invoke [flags] <name> [args...]",
		Short: "Invoke a function with 32-bit integer arguments",
		Example: `  nativefn invoke sum 2 3
  nativefn invoke --via wasm sum -1 1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			values, err := parseArgs(args[1:])
			if err != nil {
				return err
			}

			return withSession(cmd, state, func(ctx context.Context, sess *session) error {
				var result int32
				switch via {
				case viaDirect:
					result, err = sess.executor.Invoke(ctx, name, values...)
				case viaBytes:
					result, err = invokeBytes(ctx, sess, name, values)
				case viaWasm:
					result, err = sess.executor.CallHost(ctx, name, values...)
				default:
					return fmt.Errorf("unknown invocation path %q (want %s, %s or %s)", via, viaDirect, viaBytes, viaWasm)
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&via, "via", viaDirect, "invocation path: direct, bytes or wasm")
	// Negative integers after the function name are arguments, not flags.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newSchemaCmd(state *cliState) *cobra.Command {
	var request bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the function manifest or the invoke request schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if request {
				data, err := schema.InvokeRequestSchema()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			return withSession(cmd, state, func(_ context.Context, sess *session) error {
				data, err := json.MarshalIndent(schema.Describe(sess.executor.Registry()), "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal manifest: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&request, "request", false, "print the JSON schema of an invoke request instead")
	return cmd
}

func parseArgs(raw []string) ([]int32, error) {
	values := make([]int32, len(raw))
	for i, s := range raw {
		v, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %q is not a 32-bit integer", i+1, s)
		}
		values[i] = int32(v)
	}
	return values, nil
}

// invokeBytes round-trips one call through the byte handler using the
// configured codec.
func invokeBytes(ctx context.Context, sess *session, name string, args []int32) (int32, error) {
	payload, err := sess.codec.Marshal(wireformat.InvokeRequest{Function: name, Args: args})
	if err != nil {
		return 0, fmt.Errorf("failed to encode request: %w", err)
	}

	handler := exports.NewByteHandler(sess.executor.Registry(), sess.codec)
	data, err := handler(ctx, payload)
	if err != nil {
		return 0, err
	}

	var resp wireformat.InvokeResponse
	if err := sess.codec.Unmarshal(data, &resp); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.Error != nil {
		return 0, resp.Error
	}
	if resp.Result == nil {
		return 0, errors.New("response carries neither result nor error")
	}
	return *resp.Result, nil
}
