package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"floreboard/internal/media"
)

const maxPreviewBytes = 20 << 20 // 20 MB

// Archive resolves an ImageRef to raw bytes and stores it through the
// archiver, so previews survive expiring provider URLs. Hosted URLs are
// fetched; inline payloads are base64-decoded. Anything that does not sniff
// as an image fails with ErrImageDecode.
func Archive(ctx context.Context, archiver media.Archiver, ref ImageRef) (media.ArchiveResult, error) {
	data, mime, err := resolveBytes(ctx, ref)
	if err != nil {
		return media.ArchiveResult{}, err
	}

	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return media.ArchiveResult{}, ErrImageDecode
	}
	if mime == "" {
		mime = http.DetectContentType(data)
	}

	return archiver.Archive(ctx, media.ArchiveInput{
		Filename:    "preview" + extensionFor(mime),
		ContentType: mime,
		Body:        bytes.NewReader(data),
		Size:        int64(len(data)),
	})
}

func resolveBytes(ctx context.Context, ref ImageRef) ([]byte, string, error) {
	switch {
	case strings.HasPrefix(ref.URL, "data:"):
		return decodeDataURI(ref.URL)
	case ref.URL != "":
		return fetchImage(ctx, ref.URL)
	case ref.Data != "":
		data, err := base64.StdEncoding.DecodeString(ref.Data)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrImageDecode, err)
		}
		return data, ref.MIME, nil
	default:
		return nil, "", ErrImageDecode
	}
}

func decodeDataURI(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", ErrImageDecode
	}
	meta, encoded, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", ErrImageDecode
	}

	mime, _, _ := strings.Cut(meta, ";")
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	return data, mime, nil
}

func fetchImage(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("new request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch preview: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("status %d from %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPreviewBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read preview: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func extensionFor(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
