package pdf

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfdeck/internal/common"
	"github.com/ternarybob/pdfdeck/internal/models"
	"github.com/ternarybob/pdfdeck/internal/testutil"
)

func newTestRasterizer() *Rasterizer {
	return NewRasterizer(common.NewDefaultConfig().Render, arbor.NewLogger())
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestRenderScale(t *testing.T) {
	r := newTestRasterizer()

	tests := []struct {
		name   string
		bounds models.PageBounds
		want   float64
	}{
		{"letter uses full upscale", models.PageBounds{Width: 612, Height: 792}, 2.0},
		{"exactly half the cap", models.PageBounds{Width: 1440, Height: 1000}, 2.0},
		{"large page is capped", models.PageBounds{Width: 3000, Height: 2000}, 0.96},
		{"tall poster is capped by height", models.PageBounds{Width: 1000, Height: 5760}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, r.RenderScale(tt.bounds), 1e-9)
		})
	}
}

func TestRasterize_EmptyDocument(t *testing.T) {
	r := newTestRasterizer()

	pages, err := r.Rasterize(testutil.NewFakeDocument())
	assert.Nil(t, pages)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrEmptyDocument))
	assert.Equal(t, common.KindInput, common.KindOf(err))
}

func TestRasterize_DimensionsAndAspect(t *testing.T) {
	r := newTestRasterizer()
	doc := testutil.NewFakeDocument(
		models.PageBounds{Width: 612, Height: 792},
		models.PageBounds{Width: 3000, Height: 2000},
		models.PageBounds{Width: 200, Height: 100},
		models.PageBounds{Width: 1000, Height: 5760},
	)

	pages, err := r.Rasterize(doc)
	require.NoError(t, err)
	require.Len(t, pages, 4)

	for i, page := range pages {
		img := decodePNG(t, page.Image)
		w, h := img.Bounds().Dx(), img.Bounds().Dy()

		assert.Equal(t, page.PixelWidth, w, "page %d width", i)
		assert.Equal(t, page.PixelHeight, h, "page %d height", i)
		assert.LessOrEqual(t, w, DefaultMaxPixelDimension, "page %d width cap", i)
		assert.LessOrEqual(t, h, DefaultMaxPixelDimension, "page %d height cap", i)

		wantAspect := page.Bounds.Width / page.Bounds.Height
		gotAspect := float64(w) / float64(h)
		assert.InEpsilon(t, wantAspect, gotAspect, 0.01, "page %d aspect", i)
	}

	assert.Equal(t, 1224, pages[0].PixelWidth)
	assert.Equal(t, 1584, pages[0].PixelHeight)
	assert.Equal(t, 2880, pages[1].PixelWidth)
	assert.Equal(t, 1920, pages[1].PixelHeight)
	assert.Equal(t, 2880, pages[3].PixelHeight)
}

func TestRasterize_PreservesPageOrder(t *testing.T) {
	r := newTestRasterizer()
	doc := testutil.NewFakeDocument(
		models.PageBounds{Width: 100, Height: 100},
		models.PageBounds{Width: 100, Height: 100},
		models.PageBounds{Width: 100, Height: 100},
	)

	pages, err := r.Rasterize(doc)
	require.NoError(t, err)
	require.Len(t, pages, 3)

	for i, page := range pages {
		assert.Equal(t, i, page.Index)
		img := decodePNG(t, page.Image)
		red, _, _, _ := img.At(10, 10).RGBA()
		assert.Equal(t, uint32(testutil.PageColor(i).R), red>>8, "page %d color", i)
	}
}

func TestRasterize_SkipsFailingPages(t *testing.T) {
	r := newTestRasterizer()
	doc := testutil.NewFakeDocument(
		models.PageBounds{Width: 100, Height: 100},
		models.PageBounds{Width: 100, Height: 100},
		models.PageBounds{Width: 100, Height: 100},
		models.PageBounds{Width: 0, Height: 100},
	)
	doc.FailPages[1] = errors.New("broken content stream")
	doc.PanicPages[2] = true

	pages, err := r.Rasterize(doc)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 0, pages[0].Index)
}

func TestRasterize_AllPagesFail(t *testing.T) {
	r := newTestRasterizer()
	doc := testutil.NewFakeDocument(models.PageBounds{Width: 100, Height: 100})
	doc.FailPages[0] = errors.New("broken")

	_, err := r.Rasterize(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNoRenderablePages))
	assert.Equal(t, common.KindRender, common.KindOf(err))
}

type transparentDocument struct {
	*testutil.FakeDocument
}

func (d transparentDocument) RenderPage(index int, scale float64) (image.Image, error) {
	b := d.Pages[index]
	return image.NewNRGBA(image.Rect(0, 0, int(b.Width*scale), int(b.Height*scale))), nil
}

func TestRasterize_CompositesOntoWhite(t *testing.T) {
	r := newTestRasterizer()
	doc := transparentDocument{testutil.NewFakeDocument(models.PageBounds{Width: 50, Height: 40})}

	pages, err := r.Rasterize(doc)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	img := decodePNG(t, pages[0].Image)
	red, green, blue, alpha := img.At(5, 5).RGBA()
	assert.Equal(t, uint32(0xffff), red)
	assert.Equal(t, uint32(0xffff), green)
	assert.Equal(t, uint32(0xffff), blue)
	assert.Equal(t, uint32(0xffff), alpha)
}

// narrowDocument renders every page at half its declared width
type narrowDocument struct {
	*testutil.FakeDocument
}

func (d narrowDocument) RenderPage(index int, scale float64) (image.Image, error) {
	b := d.Pages[index]
	img := image.NewRGBA(image.Rect(0, 0, int(b.Width*scale/2), int(b.Height*scale)))
	for i := range img.Pix {
		if i%4 == 3 {
			img.Pix[i] = 0xff
		}
	}
	return img, nil
}

func TestRasterize_NeverStretchesMismatchedRaster(t *testing.T) {
	r := newTestRasterizer()
	doc := narrowDocument{testutil.NewFakeDocument(models.PageBounds{Width: 400, Height: 400})}

	pages, err := r.Rasterize(doc)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	img := decodePNG(t, pages[0].Image)
	require.Equal(t, 800, img.Bounds().Dx())
	require.Equal(t, 800, img.Bounds().Dy())

	row := 400
	isBlack := func(x int) bool {
		red, _, _, _ := img.At(x, row).RGBA()
		return red == 0
	}
	assert.False(t, isBlack(100), "left margin stays white")
	assert.True(t, isBlack(300))
	assert.True(t, isBlack(500))
	assert.False(t, isBlack(700), "right margin stays white")
}

func TestFitRect(t *testing.T) {
	tests := []struct {
		name       string
		dst        image.Rectangle
		srcW, srcH int
		want       image.Rectangle
	}{
		{"same size", image.Rect(0, 0, 800, 600), 800, 600, image.Rect(0, 0, 800, 600)},
		{"backend rounding snaps", image.Rect(0, 0, 1191, 1684), 1190, 1684, image.Rect(0, 0, 1191, 1684)},
		{"narrow source is pillarboxed", image.Rect(0, 0, 800, 800), 400, 800, image.Rect(200, 0, 600, 800)},
		{"wide source is letterboxed", image.Rect(0, 0, 800, 800), 800, 200, image.Rect(0, 300, 800, 500)},
		{"empty source", image.Rect(0, 0, 10, 10), 0, 5, image.Rect(0, 0, 10, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fitRect(tt.dst, tt.srcW, tt.srcH))
		})
	}
}

func TestNewRasterizer_FallsBackToDefaults(t *testing.T) {
	r := NewRasterizer(common.RenderConfig{}, arbor.NewLogger())
	assert.Equal(t, DefaultUpscaleFactor, r.upscaleFactor)
	assert.Equal(t, DefaultMaxPixelDimension, r.maxPixelDimension)
}
