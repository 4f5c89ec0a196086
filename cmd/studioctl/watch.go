package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"face-animation/pkg/s3"
	"face-animation/pkg/studio"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const defaultSettle = 300 * time.Millisecond

// uploadWatcher turns images dropped into a directory into avatar uploads.
// Each file is uploaded once it has seen no write for settle.
type uploadWatcher struct {
	dir     string
	settle  time.Duration
	watcher *fsnotify.Watcher
}

func newUploadWatcher(dir string, settle time.Duration) (*uploadWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &uploadWatcher{dir: dir, settle: settle, watcher: watcher}, nil
}

func isImage(path string) bool {
	_, ok := s3.Ext(path, s3.ImageExtensions)
	return ok
}

// run blocks until ctx is done. upload errors go to report and do not stop
// the watch.
func (w *uploadWatcher) run(ctx context.Context, upload func(path string) error, report func(path string, err error)) error {
	defer w.watcher.Close()

	pending := make(map[string]*time.Timer)
	ready := make(chan string)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isImage(event.Name) {
				continue
			}
			if t, ok := pending[event.Name]; ok {
				t.Reset(w.settle)
				continue
			}
			name := event.Name
			pending[name] = time.AfterFunc(w.settle, func() {
				select {
				case ready <- name:
				case <-ctx.Done():
				}
			})

		case name := <-ready:
			if _, ok := pending[name]; !ok {
				continue
			}
			delete(pending, name)
			report(name, upload(name))

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", w.dir, err)
		}
	}
}

func (c *cli) newWatchCmd() *cobra.Command {
	var (
		f        loginFlags
		existing bool
		settle   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Upload every image dropped into a directory as an avatar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			backend, err := c.newBackend(f.role)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			location, err := c.login(cmd.Context(), out, backend, f)
			if err != nil {
				return err
			}
			cfg, ok := dashboardFor(pageName(location))
			if !ok {
				return fmt.Errorf("%s cannot upload avatars", location)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			doc := newDocument(out)
			dash := studio.NewDashboard(doc, backend, cfg, c.timeout(), c.log)
			dash.Load(ctx)
			upload := func(path string) error {
				file, err := readUpload(path)
				if err != nil {
					return err
				}
				doc.SetFile(cfg.AvatarInput, file)
				return outcomeErr("upload", dash.UploadAvatar(ctx))
			}

			w, err := newUploadWatcher(dir, settle)
			if err != nil {
				return err
			}
			if existing {
				uploadExisting(dir, upload, reportTo(out))
			}
			fmt.Fprintf(out, "Watching %s, press Ctrl+C to stop\n", dir)
			if err := w.run(ctx, upload, reportTo(out)); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d avatars on the %s dashboard\n", dash.Avatars().Len(), cfg.Name)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&existing, "existing", false, "also upload images already in the directory")
	cmd.Flags().DurationVar(&settle, "settle", defaultSettle, "quiet period before a new file is uploaded")
	return cmd
}

func uploadExisting(dir string, upload func(string) error, report func(string, error)) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		report(dir, err)
		return
	}
	for _, e := range entries {
		if e.IsDir() || !isImage(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		report(path, upload(path))
	}
}

func reportTo(out io.Writer) func(path string, err error) {
	return func(path string, err error) {
		if err != nil {
			fmt.Fprintf(out, "error: %s: %v\n", filepath.Base(path), err)
			return
		}
		fmt.Fprintf(out, "Uploaded %s\n", filepath.Base(path))
	}
}
