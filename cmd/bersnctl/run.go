package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"bersn-calc/internal/bersn"
	"bersn-calc/internal/bersnclient"
	"bersn-calc/internal/observability"
)

type globalOptions struct {
	url     string
	timeout time.Duration
}

func (o *globalOptions) client() *bersnclient.Client {
	var opts []bersnclient.Option
	if o.timeout > 0 {
		opts = append(opts, bersnclient.WithTimeout(o.timeout))
	}
	return bersnclient.New(o.url, opts...)
}

func runHealth(ctx context.Context, opts *globalOptions, out io.Writer) error {
	status, err := opts.client().Health(ctx)
	if err != nil {
		return err
	}
	return writeJSON(out, status)
}

func runCalculation(ctx context.Context, opts *globalOptions, file string, stdin io.Reader, out io.Writer) error {
	in := stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("open request: %w", err)
		}
		defer f.Close()
		in = f
	}

	// Validate locally so a malformed file fails before any network call.
	req, err := bersn.DecodeRequest(in)
	if err != nil {
		return fmt.Errorf("read request %s: %w", file, err)
	}

	ctx = observability.ContextWithRequestID(ctx, observability.NewRequestID())

	res, err := opts.client().Run(ctx, req)
	if err != nil {
		return err
	}
	return writeJSON(out, res)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
