// -----------------------------------------------------------------------
// Package Builder - Assemble rendered pages into a PresentationML archive
// -----------------------------------------------------------------------

package pptx

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfdeck/internal/common"
	"github.com/ternarybob/pdfdeck/internal/interfaces"
	"github.com/ternarybob/pdfdeck/internal/models"
)

const (
	defaultApplication = "pdfdeck"
	presentationTitle  = "Presentation"
	packageDirName     = "package"
	archiveFileName    = "presentation.pptx"
)

// Builder writes the package tree into a per-build temp directory, zips it
// and returns the archive bytes. Nothing is left on disk afterwards.
type Builder struct {
	logger      arbor.ILogger
	tempRoot    string
	application string
	creator     string
	now         func() time.Time
}

// Compile-time interface assertion
var _ interfaces.PackageBuilder = (*Builder)(nil)

// NewBuilder creates a package builder. An empty TempDir uses os.TempDir.
func NewBuilder(config common.PackageConfig, logger arbor.ILogger) *Builder {
	application := config.Application
	if application == "" {
		application = defaultApplication
	}
	return &Builder{
		logger:      logger,
		tempRoot:    config.TempDir,
		application: application,
		creator:     config.Creator,
		now:         time.Now,
	}
}

// Manifest lists every part of a package with slideCount slides, in write order
func Manifest(slideCount int) []string {
	parts := []string{
		PathContentTypes,
		PathPackageRels,
		PathAppProps,
		PathCoreProps,
		PathPresentation,
		PathPresentationRels,
		PathSlideMaster,
		PathSlideMasterRels,
		PathSlideLayout,
		PathSlideLayoutRels,
		PathTheme,
	}
	for i := 1; i <= slideCount; i++ {
		parts = append(parts, SlidePath(i), SlideRelsPath(i), MediaPath(i))
	}
	return parts
}

// Build produces one slide per page, in page order
func (b *Builder) Build(pages []models.RenderedPage) ([]byte, error) {
	if len(pages) == 0 {
		return nil, common.NewError(common.KindPackage, "build package", common.ErrNoPages)
	}

	workDir, err := os.MkdirTemp(b.tempRoot, "pdfdeck-pptx-*")
	if err != nil {
		return nil, common.NewError(common.KindPackage, "create temp dir", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			b.logger.Warn().Err(err).Str("dir", workDir).Msg("Failed to remove package temp directory")
		}
	}()

	treeDir := filepath.Join(workDir, packageDirName)
	if err := b.writeTree(treeDir, pages); err != nil {
		return nil, err
	}

	archivePath := filepath.Join(workDir, archiveFileName)
	if err := zipDirectory(treeDir, archivePath); err != nil {
		return nil, common.NewError(common.KindPackage, "zip package", err)
	}

	data, err := os.ReadFile(archivePath)
	if err != nil {
		return nil, common.NewError(common.KindIO, "read archive", err)
	}

	b.logger.Debug().
		Int("slides", len(pages)).
		Int("archive_bytes", len(data)).
		Msg("Presentation package built")

	return data, nil
}

func (b *Builder) writeTree(root string, pages []models.RenderedPage) error {
	slideCount := len(pages)
	stamp := b.now()

	generated := map[string]func() ([]byte, error){
		PathContentTypes:     func() ([]byte, error) { return contentTypesXML(slideCount) },
		PathPackageRels:      packageRelsXML,
		PathAppProps:         func() ([]byte, error) { return appPropsXML(b.application, slideCount) },
		PathCoreProps:        func() ([]byte, error) { return corePropsXML(presentationTitle, b.creator, stamp) },
		PathPresentation:     func() ([]byte, error) { return presentationXML(slideCount) },
		PathPresentationRels: func() ([]byte, error) { return presentationRelsXML(slideCount) },
		PathSlideMaster:      func() ([]byte, error) { return templatePart("slideMaster1.xml") },
		PathSlideMasterRels:  slideMasterRelsXML,
		PathSlideLayout:      func() ([]byte, error) { return templatePart("slideLayout1.xml") },
		PathSlideLayoutRels:  slideLayoutRelsXML,
		PathTheme:            func() ([]byte, error) { return templatePart("theme1.xml") },
	}

	for i, page := range pages {
		n := i + 1
		generated[SlidePath(n)] = func() ([]byte, error) { return slideXML(n, ComputeGeometry(page.Bounds)) }
		generated[SlideRelsPath(n)] = func() ([]byte, error) { return slideRelsXML(n) }
		generated[MediaPath(n)] = func() ([]byte, error) {
			if len(page.Image) == 0 {
				return nil, fmt.Errorf("page %d has no image data", page.Index+1)
			}
			return page.Image, nil
		}
	}

	for _, part := range Manifest(slideCount) {
		data, err := generated[part]()
		if err != nil {
			return common.NewError(common.KindPackage, "write part "+part, err)
		}
		if err := writePart(root, part, data); err != nil {
			return common.NewError(common.KindPackage, "write part "+part, err)
		}
	}
	return nil
}

func writePart(root, part string, data []byte) error {
	path := filepath.Join(root, filepath.FromSlash(part))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// zipDirectory archives every file under root with DEFLATE. Entry names are
// relative to root and [Content_Types].xml is always the first entry.
func zipDirectory(root, archivePath string) (err error) {
	var entries []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		entries = append(entries, filepath.ToSlash(rel))
		return nil
	})
	if walkErr != nil {
		return walkErr
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i] == PathContentTypes || entries[j] == PathContentTypes {
			return entries[i] == PathContentTypes && entries[j] != PathContentTypes
		}
		return entries[i] < entries[j]
	})

	out, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	zw := zip.NewWriter(out)
	for _, name := range entries {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
		if err != nil {
			return err
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return zw.Close()
}
