package storage

import (
	"errors"
	"fmt"
	"os"
	"path"

	"tinygo.org/x/tinyfs"
	"tinygo.org/x/tinyfs/fatfs"
	"tinygo.org/x/tinyfs/littlefs"

	"matrixloop/hal"
)

// FS is a Backend over a mounted tinyfs filesystem. Flash (LittleFS) and SD
// (FAT) share it.
type FS struct {
	name      string
	fs        tinyfs.Filesystem
	mapErr    func(op, p string, err error) error
	formatted bool
}

// NewFlash mounts LittleFS on fl, formatting the flash when no valid
// filesystem is found.
func NewFlash(fl hal.Flash) (*FS, error) {
	if fl == nil || fl.SizeBytes() == 0 || fl.EraseBlockBytes() == 0 {
		return nil, errors.New("flash: no device")
	}
	if fl.SizeBytes()%fl.EraseBlockBytes() != 0 {
		return nil, fmt.Errorf("flash: size %d not multiple of erase block size %d", fl.SizeBytes(), fl.EraseBlockBytes())
	}
	return MountLittleFS(NewFlashDevice(fl), true)
}

// MountLittleFS mounts LittleFS on dev. With format set, a failed mount is
// followed by a format and a second mount.
func MountLittleFS(dev tinyfs.BlockDevice, format bool) (*FS, error) {
	blocks := uint32(dev.Size() / dev.EraseBlockSize())
	lookahead := (blocks + 7) / 8
	if lookahead < 64 {
		lookahead = 64
	}
	lookahead = (lookahead + 7) &^ 7

	lfs := littlefs.New(dev)
	lfs.Configure(&littlefs.Config{
		CacheSize:     flashPageBytes,
		LookaheadSize: lookahead,
		BlockCycles:   500,
	})

	b := &FS{name: "flash", fs: lfs, mapErr: mapLittleFSErr(lfs)}
	err := lfs.Mount()
	if err == nil {
		return b, nil
	}
	if !format {
		return nil, fmt.Errorf("littlefs mount: %w", err)
	}
	if ferr := lfs.Format(); ferr != nil {
		return nil, fmt.Errorf("littlefs format after mount error %v: %w", err, ferr)
	}
	if err := lfs.Mount(); err != nil {
		return nil, fmt.Errorf("littlefs mount after format: %w", err)
	}
	b.formatted = true
	return b, nil
}

// NewSD mounts the FAT filesystem on an SD block device. Removable media are
// never formatted.
func NewSD(dev hal.BlockDevice) (*FS, error) {
	if dev == nil {
		return nil, errors.New("sd: no card")
	}
	fat := fatfs.New(dev)
	fat.Configure(&fatfs.Config{SectorSize: fatfs.SectorSize})
	if err := fat.Mount(); err != nil {
		return nil, mapFatErr("mount", "", err)
	}
	return &FS{name: "sd", fs: fat, mapErr: mapFatErr}, nil
}

func (b *FS) Name() string { return b.name }

// Formatted reports whether mounting had to format the medium first.
func (b *FS) Formatted() bool { return b.formatted }

// Filesystem exposes the mounted filesystem, for image builders.
func (b *FS) Filesystem() tinyfs.Filesystem { return b.fs }

func (b *FS) Unmount() error { return b.fs.Unmount() }

func (b *FS) Open(p string) (Resource, error) {
	f, err := b.fs.Open(p)
	if err != nil {
		return nil, b.mapErr("open", p, err)
	}
	if f.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%s open %s: is a directory: %w", b.name, p, ErrNotFound)
	}
	return newResource(f), nil
}

func (b *FS) Walk(root string, fn WalkFunc) error {
	return b.walk(root, fn)
}

func (b *FS) walk(dir string, fn WalkFunc) error {
	f, err := b.fs.OpenFile(dir, os.O_RDONLY)
	if err != nil {
		return b.mapErr("open dir", dir, err)
	}
	entries, err := f.Readdir(0)
	_ = f.Close()
	if err != nil {
		return b.mapErr("readdir", dir, err)
	}
	for _, e := range entries {
		name := e.Name()
		if name == "." || name == ".." {
			continue
		}
		p := path.Join(dir, name)
		if err := fn(p, e); err != nil {
			return err
		}
		if e.IsDir() {
			if err := b.walk(p, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// mapLittleFSErr reports ErrNotFound when the failed path cannot be stat'ed
// either; LittleFS error codes are not exported.
func mapLittleFSErr(lfs *littlefs.LFS) func(op, p string, err error) error {
	return func(op, p string, err error) error {
		if err == nil {
			return nil
		}
		if _, serr := lfs.Stat(p); serr != nil {
			return fmt.Errorf("flash %s %s: %w (%v)", op, p, ErrNotFound, err)
		}
		return fmt.Errorf("flash %s %s: %w", op, p, err)
	}
}

func mapFatErr(op, p string, err error) error {
	if err == nil {
		return nil
	}
	if p != "" {
		op += " " + p
	}
	var fr fatfs.FileResult
	if errors.As(err, &fr) {
		switch fr {
		case fatfs.FileResultNoFile, fatfs.FileResultNoPath:
			return fmt.Errorf("sd %s: %w", op, ErrNotFound)
		case fatfs.FileResultNoFilesystem, fatfs.FileResultInvalidName, fatfs.FileResultInvalidParameter:
			return fmt.Errorf("sd %s: %w", op, os.ErrInvalid)
		}
	}
	return fmt.Errorf("sd %s: %v", op, err)
}
