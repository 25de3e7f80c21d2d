package main

import (
	"context"
	"net/url"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type batchJob struct {
	raw string
	src inputSource
	dst string
}

// renderBatch renders every input to its own file under o.outDir.
func renderBatch(ctx context.Context, o options, args []string, log *logrus.Logger) error {
	if len(args) == 0 {
		return errors.New("out-dir: no inputs")
	}
	dir := normalizePath(o.outDir)
	seen := make(map[string]string, len(args))
	jobs := make([]batchJob, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(ctx, raw)
		if err != nil {
			return err
		}
		dst := filepath.Join(dir, outputName(raw))
		if prev, dup := seen[dst]; dup {
			return errors.Newf("out-dir: %q and %q both write %s", prev, raw, dst)
		}
		seen[dst] = raw
		jobs = append(jobs, batchJob{raw: raw, src: src, dst: dst})
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			if err := renderFile(job, o); err != nil {
				return errors.Wrapf(err, "render %s", job.raw)
			}
			log.WithFields(logrus.Fields{
				"input":   job.raw,
				"output":  job.dst,
				"elapsed": time.Since(start),
			}).Info("rendered")
			return nil
		})
	}
	return g.Wait()
}

func renderFile(job batchJob, o options) (err error) {
	reader, err := job.src.open()
	if err != nil {
		return err
	}
	defer func() { _ = reader.Close() }()
	writer, closeOut, err := createFile(job.dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut.Close(); err == nil {
			err = cerr
		}
	}()
	return renderTo(writer, reader, o)
}

// outputName maps an input argument to "<name>.html".
func outputName(raw string) string {
	name := filepath.ToSlash(localPath(raw))
	if isRemote(raw) {
		if u, err := url.Parse(raw); err == nil {
			name = u.Path
		}
	}
	base := path.Base(name)
	switch base {
	case "", ".", "/":
		base = "index"
	}
	return strings.TrimSuffix(base, path.Ext(base)) + ".html"
}

// watchPaths resolves the inputs that can be watched. Remote inputs and stdin
// cannot.
func watchPaths(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, errors.New("stdin cannot be watched")
	}
	paths := make([]string, 0, len(args))
	for _, raw := range args {
		if isRemote(raw) {
			return nil, errors.Newf("%s is not a local file", raw)
		}
		paths = append(paths, normalizePath(localPath(raw)))
	}
	return paths, nil
}

// watch calls rebuild whenever one of paths is written or replaced, until ctx
// is done. Parent directories are watched so that editors that save by
// renaming are still seen.
func watch(ctx context.Context, paths []string, log logrus.FieldLogger, rebuild func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "watch")
	}
	defer w.Close()

	wanted := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{})
	for _, p := range paths {
		wanted[filepath.Clean(p)] = struct{}{}
		dir := filepath.Dir(p)
		if _, ok := dirs[dir]; ok {
			continue
		}
		if err := w.Add(dir); err != nil {
			return errors.Wrapf(err, "watch %s", dir)
		}
		dirs[dir] = struct{}{}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if _, ok := wanted[filepath.Clean(ev.Name)]; !ok {
				continue
			}
			log.WithField("path", ev.Name).Debug("changed")
			if err := rebuild(); err != nil {
				log.WithError(err).Error("render failed")
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watch error")
		}
	}
}
