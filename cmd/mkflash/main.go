//go:build !tinygo

// Command mkflash packs a directory of frames into a LittleFS flash image the
// player can mount.
package main

import (
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"tinygo.org/x/tinyfs"

	"matrixloop/hal"
	"matrixloop/player/frame"
	"matrixloop/player/storage"
)

const (
	defaultFlashPath = "matrixloop.flash"
	defaultFlashSize = 2 * 1024 * 1024
)

var frameName = regexp.MustCompile(`^/frame(0|[1-9][0-9]*)\.raw$`)

type options struct {
	src       string
	out       string
	size      uint32
	frameSize int
}

func main() {
	var (
		opts          options
		size          uint
		width, height int
		chain         int
	)
	flag.StringVar(&opts.src, "src", "", "Source directory to import into LittleFS.")
	flag.StringVar(&opts.out, "out", defaultFlashPath, "Output flash image path.")
	flag.UintVar(&size, "size", defaultFlashSize, "Flash image size (bytes).")
	flag.IntVar(&width, "width", 64, "Panel width, for frame size checks.")
	flag.IntVar(&height, "height", 64, "Panel height, for frame size checks.")
	flag.IntVar(&chain, "chain", 1, "Chained panels, for frame size checks.")
	flag.Parse()

	if opts.src == "" {
		fmt.Fprintln(os.Stderr, "error: -src is required")
		os.Exit(2)
	}
	if opts.out == "" {
		fmt.Fprintln(os.Stderr, "error: -out is required")
		os.Exit(2)
	}
	if chain <= 0 {
		chain = 1
	}
	opts.size = uint32(size)
	opts.frameSize = frame.Size(width*chain, height)

	rep, err := run(opts)
	for _, w := range rep.warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Printf("%s: %d files, %d frames, %d bytes\n", opts.out, rep.files, rep.frames, rep.bytes)
}

type report struct {
	files    int
	frames   int
	bytes    int64
	warnings []string
}

func run(opts options) (report, error) {
	var rep report
	src := filepath.Clean(opts.src)
	st, err := os.Stat(src)
	if err != nil {
		return rep, fmt.Errorf("stat src %q: %w", src, err)
	}
	if !st.IsDir() {
		return rep, fmt.Errorf("src %q is not a directory", src)
	}

	fl, err := hal.CreateFlashImage(opts.out, opts.size)
	if err != nil {
		return rep, err
	}
	defer func() { _ = hal.CloseFlash(fl) }()

	lfs, err := storage.MountLittleFS(storage.NewFlashDevice(fl), true)
	if err != nil {
		return rep, err
	}
	defer func() { _ = lfs.Unmount() }()

	var dirs, files []string
	walkErr := filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == src {
			return nil
		}
		if entry.Type()&os.ModeSymlink != 0 {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		lfsPath := "/" + filepath.ToSlash(rel)
		if entry.IsDir() {
			dirs = append(dirs, lfsPath)
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		files = append(files, lfsPath)
		return nil
	})
	if walkErr != nil {
		return rep, fmt.Errorf("walk src %q: %w", src, walkErr)
	}

	sort.Strings(dirs)
	sort.Strings(files)

	for _, d := range dirs {
		if err := lfs.Filesystem().Mkdir(d, 0o777); err != nil {
			return rep, fmt.Errorf("mkdir %q: %w", d, err)
		}
	}

	for _, p := range files {
		hostPath := filepath.Join(src, filepath.FromSlash(strings.TrimPrefix(p, "/")))
		n, err := copyFile(lfs.Filesystem(), hostPath, p)
		if err != nil {
			return rep, err
		}
		rep.files++
		rep.bytes += n
		if frameName.MatchString(p) {
			rep.frames++
			if opts.frameSize > 0 && n != int64(opts.frameSize) {
				rep.warnings = append(rep.warnings,
					fmt.Sprintf("%s is %d bytes, expected %d", p, n, opts.frameSize))
			}
		}
	}
	return rep, nil
}

func copyFile(fsys tinyfs.Filesystem, hostPath string, lfsPath string) (int64, error) {
	in, err := os.Open(hostPath)
	if err != nil {
		return 0, fmt.Errorf("open %q: %w", hostPath, err)
	}
	defer func() { _ = in.Close() }()

	out, err := fsys.OpenFile(lfsPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC)
	if err != nil {
		return 0, fmt.Errorf("open writer %q: %w", lfsPath, err)
	}

	n, err := io.Copy(out, in)
	if err != nil {
		_ = out.Close()
		return n, fmt.Errorf("copy %q: %w", lfsPath, err)
	}
	if err := out.Close(); err != nil {
		return n, fmt.Errorf("close %q: %w", lfsPath, err)
	}
	return n, nil
}
