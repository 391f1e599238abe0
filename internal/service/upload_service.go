package service

import (
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/indra-store/internal/config"
	"github.com/indra-store/internal/constants"
	"github.com/indra-store/internal/logger"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

const (
	defaultUploadDir       = "uploads"
	uploadPublicPrefix     = "/uploads"
	defaultUploadMaxSizeMB = 10
)

var unsafeFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// UploadService 文件上传服务
type UploadService struct {
	cfg config.UploadConfig
	now func() time.Time
}

// NewUploadService 创建文件上传服务实例
func NewUploadService(cfg config.UploadConfig) *UploadService {
	return &UploadService{cfg: cfg, now: time.Now}
}

// Root 上传文件根目录
func (s *UploadService) Root() string {
	dir := strings.TrimSpace(s.cfg.Dir)
	if dir == "" {
		return defaultUploadDir
	}
	return dir
}

// SaveProductImage 保存商品图片
// 文件名为 {unixMillis}-{baseName}{ext}，扩展名缺失时使用 .jpg，返回公开访问路径。
func (s *UploadService) SaveProductImage(file *multipart.FileHeader, baseName string) (string, error) {
	if file == nil {
		return "", fmt.Errorf("%w: file is empty", ErrUploadInvalid)
	}
	maxSize := s.cfg.MaxSize
	if maxSize <= 0 {
		maxSize = defaultUploadMaxSizeMB * 1024 * 1024
	}
	if file.Size > maxSize {
		return "", fmt.Errorf("%w: file exceeds %d MB", ErrUploadInvalid, maxSize/1024/1024)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = constants.DefaultProductImageExtension
	}
	if len(s.cfg.AllowedExtensions) > 0 && !isAllowedExtension(ext, s.cfg.AllowedExtensions) {
		return "", fmt.Errorf("%w: extension %s not allowed", ErrUploadInvalid, ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// 读取文件头部识别 MIME 类型
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	contentType := http.DetectContentType(buffer[:n])
	if len(s.cfg.AllowedTypes) > 0 && !isAllowedContentType(contentType, s.cfg.AllowedTypes) {
		return "", fmt.Errorf("%w: content type %s not allowed", ErrUploadInvalid, contentType)
	}

	if strings.HasPrefix(contentType, "image/") {
		width, height, err := decodeImageDimensions(src, contentType)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUploadInvalid, err)
		}
		if s.cfg.MaxWidth > 0 && width > s.cfg.MaxWidth {
			return "", fmt.Errorf("%w: width exceeds %d", ErrUploadInvalid, s.cfg.MaxWidth)
		}
		if s.cfg.MaxHeight > 0 && height > s.cfg.MaxHeight {
			return "", fmt.Errorf("%w: height exceeds %d", ErrUploadInvalid, s.cfg.MaxHeight)
		}
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), sanitizeFileBase(baseName), ext)
	savePath := filepath.Join(s.Root(), constants.UploadSceneProduct, filename)
	if err := os.MkdirAll(filepath.Dir(savePath), 0o755); err != nil {
		return "", err
	}

	dst, err := os.Create(savePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return path.Join(uploadPublicPrefix, constants.UploadSceneProduct, filename), nil
}

// Remove 删除公开路径对应的本地文件，失败只记录日志
func (s *UploadService) Remove(publicURL string) {
	trimmed := strings.TrimSpace(publicURL)
	if !strings.HasPrefix(trimmed, uploadPublicPrefix+"/") {
		return
	}
	rel := strings.TrimPrefix(trimmed, uploadPublicPrefix+"/")
	if strings.Contains(rel, "..") {
		return
	}
	target := filepath.Join(s.Root(), filepath.FromSlash(rel))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		logger.Warnw("upload_remove_failed", "path", target, "error", err)
	}
}

func sanitizeFileBase(raw string) string {
	cleaned := strings.Trim(unsafeFileNameChars.ReplaceAllString(strings.TrimSpace(raw), "-"), "-")
	if cleaned == "" {
		return "image"
	}
	return cleaned
}

func isAllowedContentType(contentType string, allowed []string) bool {
	for _, t := range allowed {
		if strings.EqualFold(contentType, strings.TrimSpace(t)) {
			return true
		}
	}
	return false
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}

func decodeImageDimensions(src io.ReadSeeker, contentType string) (int, int, error) {
	if strings.EqualFold(contentType, "image/webp") {
		width, height, err := decodeWebPDimensions(src)
		if err != nil {
			return 0, 0, fmt.Errorf("decode webp: %w", err)
		}
		return width, height, nil
	}

	if _, err := src.Seek(0, 0); err != nil {
		return 0, 0, err
	}
	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return 0, 0, fmt.Errorf("decode image: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// webpDimensionBytes VP8/VP8L/VP8X 块中尺寸字段所需的最大字节数
const webpDimensionBytes = 10

func decodeWebPDimensions(src io.ReadSeeker) (int, int, error) {
	total, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, 0, err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, 0, err
	}

	header := make([]byte, 12)
	if _, err := io.ReadFull(src, header); err != nil {
		return 0, 0, err
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WEBP" {
		return 0, 0, fmt.Errorf("invalid webp header")
	}

	chunkHeader := make([]byte, 8)
	for {
		if _, err := io.ReadFull(src, chunkHeader); err != nil {
			return 0, 0, err
		}
		chunkType := string(chunkHeader[0:4])
		chunkSize := int64(binary.LittleEndian.Uint32(chunkHeader[4:8]))

		offset, err := src.Seek(0, io.SeekCurrent)
		if err != nil {
			return 0, 0, err
		}
		if chunkSize > total-offset {
			return 0, 0, fmt.Errorf("webp chunk %q exceeds file size", chunkType)
		}

		switch chunkType {
		case "VP8X", "VP8 ", "VP8L":
			data := make([]byte, min(chunkSize, webpDimensionBytes))
			if _, err := io.ReadFull(src, data); err != nil {
				return 0, 0, err
			}
			return webpChunkDimensions(chunkType, data)
		}

		skip := chunkSize + chunkSize%2
		if _, err := src.Seek(skip, io.SeekCurrent); err != nil {
			return 0, 0, err
		}
	}
}

func webpChunkDimensions(chunkType string, data []byte) (int, int, error) {
	switch chunkType {
	case "VP8X":
		if len(data) < 10 {
			return 0, 0, fmt.Errorf("VP8X chunk too short")
		}
		width := 1 + int(data[4]) + int(data[5])<<8 + int(data[6])<<16
		height := 1 + int(data[7]) + int(data[8])<<8 + int(data[9])<<16
		return width, height, nil
	case "VP8 ":
		if len(data) < 10 {
			return 0, 0, fmt.Errorf("VP8 chunk too short")
		}
		width := int(binary.LittleEndian.Uint16(data[6:8]) & 0x3FFF)
		height := int(binary.LittleEndian.Uint16(data[8:10]) & 0x3FFF)
		return width, height, nil
	default:
		if len(data) < 5 {
			return 0, 0, fmt.Errorf("VP8L chunk too short")
		}
		if data[0] != 0x2f {
			return 0, 0, fmt.Errorf("invalid VP8L signature")
		}
		bits := binary.LittleEndian.Uint32(data[1:5])
		width := int(bits&0x3FFF) + 1
		height := int((bits>>14)&0x3FFF) + 1
		return width, height, nil
	}
}
