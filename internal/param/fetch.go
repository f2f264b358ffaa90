package param

import "context"

type Fetcher interface {
	Fetch(context.Context, string) (string, error)
}

// Resolve returns value when it is set, otherwise the parameter stored at
// path. Both empty yields an empty string.
func Resolve(ctx context.Context, f Fetcher, value, path string) (string, error) {
	if value != "" || path == "" {
		return value, nil
	}
	return f.Fetch(ctx, path)
}
