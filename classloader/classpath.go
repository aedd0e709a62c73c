/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/edsrzf/mmap-go"
	"github.com/marrowvm/marrow/globals"
	"github.com/marrowvm/marrow/trace"
	"golang.org/x/sync/errgroup"
)

// Archive is a loaded .jar (or .jmod, which is a zip with a small header)
// file, opened once and kept around so repeat class lookups don't re-open
// and re-scan the central directory.
type Archive struct {
	path    string
	zr      *zip.Reader
	mu      sync.Mutex
	byName  map[string]*zip.File
	mainCls string
}

// jmodMagic is the four-byte header every .jmod file starts with, before
// the embedded zip archive.
var jmodMagic = []byte("JM\x01\x00")

// NewJarFile opens filename (a .jar or .jmod) and indexes its entries.
func NewJarFile(filename string) (*Archive, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	mapped, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}

	data := []byte(mapped)
	offset := int64(0)
	if len(data) >= 4 && string(data[:4]) == string(jmodMagic) {
		offset = 4
	}

	zr, err := zip.NewReader(sliceReaderAt(data[offset:]), info.Size()-offset)
	if err != nil {
		return nil, fmt.Errorf("NewJarFile: %s is not a valid archive: %w", filename, err)
	}

	archive := &Archive{path: filename, zr: zr, byName: make(map[string]*zip.File, len(zr.File))}
	for _, zf := range zr.File {
		archive.byName[zf.Name] = zf
	}

	if mf := archive.byName["META-INF/MANIFEST.MF"]; mf != nil {
		archive.mainCls = readMainClassAttribute(mf)
	}

	return archive, nil
}

type sliceReaderAt []byte

func (s sliceReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(s)) {
		return 0, fmt.Errorf("EOF")
	}
	n := copy(p, s[off:])
	return n, nil
}

func readMainClassAttribute(f *zip.File) string {
	rc, err := f.Open()
	if err != nil {
		return ""
	}
	defer rc.Close()
	buf := make([]byte, f.UncompressedSize64)
	if _, err := rc.Read(buf); err != nil && len(buf) == 0 {
		return ""
	}
	for _, line := range strings.Split(string(buf), "\n") {
		line = strings.TrimRight(line, "\r\n")
		if strings.HasPrefix(line, "Main-Class:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "Main-Class:"))
		}
	}
	return ""
}

func (a *Archive) getMainClass() string {
	return a.mainCls
}

type loadResult struct {
	Success bool
	Data    *[]byte
}

func (a *Archive) loadClass(className string) (*loadResult, error) {
	name := className
	if !strings.HasSuffix(name, ".class") {
		name += ".class"
	}
	a.mu.Lock()
	zf, ok := a.byName[name]
	a.mu.Unlock()
	if !ok {
		return &loadResult{Success: false}, nil
	}

	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	buf := make([]byte, zf.UncompressedSize64)
	if _, err := readFull(rc, buf); err != nil {
		return nil, err
	}
	return &loadResult{Success: true, Data: &buf}, nil
}

func readFull(r interface{ Read([]byte) (int, error) }, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			if total == len(buf) {
				return total, nil
			}
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

// jmodMap associates a class's binary name with the jmod file that
// contains it, built once at startup by scanning JAVA_HOME/jmods.
var (
	jmodMapMu   sync.RWMutex
	jmodMap     map[string]string
	baseArchive *Archive
)

// JmodMapInit scans JAVA_HOME/jmods for every .jmod file and records which
// one holds each class. The jmod's own name is not used for this: every
// jmod found is opened and its full entry list indexed, so lookups are
// exact.
func JmodMapInit() {
	jmodMapMu.Lock()
	jmodMap = make(map[string]string)
	jmodMapMu.Unlock()

	g := globals.GetGlobalRef()
	jmodsDir := filepath.Join(g.JavaHome, "jmods")
	entries, err := os.ReadDir(jmodsDir)
	if err != nil {
		trace.Warning("JmodMapInit: cannot read " + jmodsDir + ": " + err.Error())
		return
	}

	var eg errgroup.Group
	var mu sync.Mutex
	for _, e := range entries {
		e := e
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jmod") {
			continue
		}
		eg.Go(func() error {
			path := filepath.Join(jmodsDir, e.Name())
			archive, err := NewJarFile(path)
			if err != nil {
				trace.Warning("JmodMapInit: skipping " + path + ": " + err.Error())
				return nil
			}
			mu.Lock()
			for name := range archive.byName {
				if strings.HasPrefix(name, "classes/") && strings.HasSuffix(name, ".class") {
					cls := strings.TrimSuffix(strings.TrimPrefix(name, "classes/"), ".class")
					jmodMap[cls] = path
				}
			}
			if e.Name() == "java.base.jmod" {
				baseArchive = archive
			}
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()
}

// JmodMapFetch returns the jmod file path expected to contain className,
// or "" if no jmod was found to hold it.
func JmodMapFetch(className string) string {
	jmodMapMu.RLock()
	defer jmodMapMu.RUnlock()
	return jmodMap[className]
}

// GetClassBytes reads className's .class bytes out of the given jmod file.
func GetClassBytes(jmodFileName, className string) ([]byte, error) {
	archive, err := NewJarFile(jmodFileName)
	if err != nil {
		return nil, err
	}
	res, err := archive.loadClass("classes/" + className)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, fmt.Errorf("GetClassBytes: %s not found in %s", className, jmodFileName)
	}
	return *res.Data, nil
}

// GetBaseJmodBytes ensures java.base.jmod has been opened and indexed so
// that bootstrap loading (LoadBaseClasses) can proceed without incurring a
// second archive scan per class.
func GetBaseJmodBytes() {
	if baseArchive != nil {
		return
	}
	g := globals.GetGlobalRef()
	path := filepath.Join(g.JavaHome, "jmods", "java.base.jmod")
	archive, err := NewJarFile(path)
	if err != nil {
		trace.Warning("GetBaseJmodBytes: " + err.Error())
		return
	}
	baseArchive = archive
}

// WalkBaseJmod loads every class listed in java.base.jmod's lib/classlist
// file, the same curated subset the real JDK pre-loads at startup instead
// of lazily loading all ~6000 classes embedded in the jmod.
func WalkBaseJmod() error {
	if baseArchive == nil {
		GetBaseJmodBytes()
	}
	if baseArchive == nil {
		return fmt.Errorf("WalkBaseJmod: java.base.jmod could not be opened")
	}

	classlist, err := readClasslist(baseArchive)
	if err != nil {
		return err
	}

	g := new(errgroup.Group)
	g.SetLimit(8)
	for _, cls := range classlist {
		cls := cls
		g.Go(func() error {
			if MethAreaFetch(cls) != nil {
				return nil
			}
			res, err := baseArchive.loadClass("classes/" + cls)
			if err != nil || !res.Success {
				return nil // best-effort preload; lazy loading covers misses
			}
			_, _, _ = ParseAndPostClass(&BootstrapCL, cls, *res.Data)
			return nil
		})
	}
	return g.Wait()
}

func readClasslist(archive *Archive) ([]string, error) {
	zf, ok := archive.byName["lib/classlist"]
	if !ok {
		return nil, nil
	}
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	buf := make([]byte, zf.UncompressedSize64)
	if _, err := readFull(rc, buf); err != nil {
		return nil, err
	}
	var out []string
	for _, line := range strings.Split(string(buf), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "@") {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}
