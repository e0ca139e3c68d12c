package services

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"

	// imaging registers jpeg/png/gif/tiff/bmp decoders; webp needs its own.
	_ "golang.org/x/image/webp"

	"agentdms/admin-api/internal/models"
)

// webNativeExtensions are formats browsers render directly; no canonical
// conversion is produced for them.
var webNativeExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// encodableExtensions are the formats imaging can write back out. Thumbnails
// for anything else are encoded as PNG.
var encodableExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
}

type ImageService interface {
	Process(ctx context.Context, storedName, storagePath string) *models.ProcessedImage
}

type imageService struct {
	thumbnailSize int
}

func NewImageService(thumbnailSize int) ImageService {
	return &imageService{
		thumbnailSize: thumbnailSize,
	}
}

// Process inspects and transcodes a stored upload. It never fails: inputs the
// image libraries cannot read come back as a degraded result with zeroed
// dimensions, so metadata binding and persistence still proceed.
func (i *imageService) Process(ctx context.Context, storedName, storagePath string) *models.ProcessedImage {
	ext := strings.ToLower(filepath.Ext(storedName))

	result := &models.ProcessedImage{
		FileName:       storedName,
		StoragePath:    storagePath,
		OriginalFormat: ext,
		PageCount:      1,
	}

	if info, err := os.Stat(storagePath); err == nil {
		result.FileSize = info.Size()
	}

	if mtype, err := mimetype.DetectFile(storagePath); err == nil {
		result.MimeType = mtype.String()
	}

	if ext == ".pdf" {
		i.inspectPDF(storagePath, result)
		return result
	}

	if ext == ".tif" || ext == ".tiff" {
		if count, err := countTIFFFrames(storagePath); err != nil {
			// Not openable as a container; treat as single page.
			log.Printf("⚠️  Could not count TIFF frames for %s: %v\n", storedName, err)
		} else {
			result.PageCount = count
		}
		result.IsMultiPage = result.PageCount > 1
	}

	img, err := imaging.Open(storagePath)
	if err != nil {
		log.Printf("⚠️  Could not decode %s, returning degraded result: %v\n", storedName, err)
		result.Degraded = true
		return result
	}

	bounds := img.Bounds()
	result.Width = bounds.Dx()
	result.Height = bounds.Dy()

	if ctx.Err() != nil {
		return result
	}

	// Thumbnail failure is logged and skipped; the job still completes.
	thumbExt := ext
	if !encodableExtensions[thumbExt] {
		thumbExt = ".png"
	}
	stem := strings.TrimSuffix(storedName, ext)
	thumbPath := filepath.Join(filepath.Dir(storagePath), fmt.Sprintf("thumb_%s%s", stem, thumbExt))

	thumb := imaging.Fit(img, i.thumbnailSize, i.thumbnailSize, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		log.Printf("⚠️  Failed to generate thumbnail for %s: %v\n", storedName, err)
	} else {
		result.ThumbnailPath = thumbPath
	}

	if ctx.Err() != nil {
		return result
	}

	if !webNativeExtensions[ext] {
		convertedPath := filepath.Join(filepath.Dir(storagePath), stem+".png")
		if err := imaging.Save(img, convertedPath); err != nil {
			log.Printf("⚠️  Failed to convert %s to PNG: %v\n", storedName, err)
		} else {
			result.ConvertedPath = convertedPath
		}
	}

	return result
}

// inspectPDF extracts page count and first-page dimensions. There is no
// pure-Go rasterizer, so PDFs get neither thumbnail nor conversion; that is
// not a degradation. The pdf package panics on some malformed inputs, hence
// the recover.
func (i *imageService) inspectPDF(storagePath string, result *models.ProcessedImage) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️  PDF inspection panicked for %s: %v\n", storagePath, r)
			result.Width = 0
			result.Height = 0
			result.PageCount = 1
			result.IsMultiPage = false
			result.Degraded = true
		}
	}()

	f, r, err := pdf.Open(storagePath)
	if err != nil {
		log.Printf("⚠️  Could not open PDF %s, returning degraded result: %v\n", storagePath, err)
		result.Degraded = true
		return
	}
	defer f.Close()

	result.PageCount = r.NumPage()
	if result.PageCount < 1 {
		result.PageCount = 1
	}
	result.IsMultiPage = result.PageCount > 1

	page := r.Page(1)
	if page.V.IsNull() {
		return
	}

	// MediaBox is [x0 y0 x1 y1] in points.
	mediaBox := page.V.Key("MediaBox")
	if mediaBox.IsNull() || mediaBox.Len() != 4 {
		return
	}

	width := mediaBox.Index(2).Float64() - mediaBox.Index(0).Float64()
	height := mediaBox.Index(3).Float64() - mediaBox.Index(1).Float64()
	result.Width = int(math.Round(width))
	result.Height = int(math.Round(height))
}

// countTIFFFrames walks the IFD chain of a TIFF file. The x/image decoder
// only exposes the first frame, so the count comes from the container
// structure itself.
func countTIFFFrames(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open TIFF: %w", err)
	}
	defer f.Close()

	var header [8]byte
	if _, err := f.ReadAt(header[:], 0); err != nil {
		return 0, fmt.Errorf("failed to read TIFF header: %w", err)
	}

	var order binary.ByteOrder
	switch {
	case header[0] == 'I' && header[1] == 'I':
		order = binary.LittleEndian
	case header[0] == 'M' && header[1] == 'M':
		order = binary.BigEndian
	default:
		return 0, fmt.Errorf("not a TIFF file")
	}

	if order.Uint16(header[2:4]) != 42 {
		return 0, fmt.Errorf("bad TIFF magic number")
	}

	offset := int64(order.Uint32(header[4:8]))
	seen := make(map[int64]bool)
	count := 0

	for offset != 0 {
		if seen[offset] {
			return 0, fmt.Errorf("cyclic IFD chain at offset %d", offset)
		}
		seen[offset] = true

		var entryCount [2]byte
		if _, err := f.ReadAt(entryCount[:], offset); err != nil {
			return 0, fmt.Errorf("failed to read IFD at offset %d: %w", offset, err)
		}
		entries := int64(order.Uint16(entryCount[:]))

		var next [4]byte
		if _, err := f.ReadAt(next[:], offset+2+entries*12); err != nil {
			return 0, fmt.Errorf("failed to read next IFD offset: %w", err)
		}

		count++
		offset = int64(order.Uint32(next[:]))
	}

	if count == 0 {
		return 0, fmt.Errorf("TIFF has no IFDs")
	}

	return count, nil
}
