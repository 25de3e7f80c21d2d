package main

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"pkt.systems/mdhtml"
)

// inputSource opens one input argument on demand.
type inputSource struct {
	open func() (io.ReadCloser, error)
}

// lazyReader opens its source on the first Read and closes it at EOF.
type lazyReader struct {
	src  inputSource
	rc   io.ReadCloser
	done bool
}

func (l *lazyReader) Read(p []byte) (int, error) {
	if l.done {
		return 0, io.EOF
	}
	if l.rc == nil {
		rc, err := l.src.open()
		if err != nil {
			l.done = true
			return 0, err
		}
		l.rc = rc
	}
	n, err := l.rc.Read(p)
	if err == io.EOF {
		if cerr := l.Close(); cerr != nil {
			return n, cerr
		}
	}
	return n, err
}

func (l *lazyReader) Close() error {
	l.done = true
	if l.rc == nil {
		return nil
	}
	rc := l.rc
	l.rc = nil
	return rc.Close()
}

// inputSet closes whichever inputs are still open.
type inputSet []*lazyReader

func (s inputSet) Close() error {
	var err error
	for _, l := range s {
		err = errors.CombineErrors(err, l.Close())
	}
	return err
}

// openInputs concatenates the inputs named by args. No args means stdin.
func openInputs(ctx context.Context, args []string) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return os.Stdin, nil, nil
	}
	set := make(inputSet, 0, len(args))
	readers := make([]io.Reader, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(ctx, raw)
		if err != nil {
			return nil, nil, err
		}
		l := &lazyReader{src: src}
		set = append(set, l)
		readers = append(readers, l)
	}
	return io.MultiReader(readers...), set, nil
}

func makeInputSource(ctx context.Context, raw string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, errors.New("empty input argument")
	}
	if isRemote(raw) {
		return inputSource{open: func() (io.ReadCloser, error) {
			return mdhtml.OpenHTTP(ctx, nil, raw)
		}}, nil
	}
	path := normalizePath(localPath(raw))
	return inputSource{open: func() (io.ReadCloser, error) {
		return os.Open(path)
	}}, nil
}

func isRemote(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}

// localPath returns the file path of a plain path or file:// URL argument.
func localPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || !strings.EqualFold(u.Scheme, "file") {
		return raw
	}
	path := u.Path
	if path == "" {
		path = u.Host
	}
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	return path
}

func resolveOutput(path string) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return os.Stdout, nil, nil
	}
	return createFile(normalizePath(path))
}

func createFile(clean string) (io.Writer, io.Closer, error) {
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

// normalizePath expands a leading ~ and makes the path absolute.
func normalizePath(path string) string {
	if rest, ok := strings.CutPrefix(path, "~"); ok && (rest == "" || rest[0] == '/') {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + rest
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
