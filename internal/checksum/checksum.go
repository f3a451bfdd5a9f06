package checksum

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

const bufferSize = 64 * 1024 // 64KB buffer

// Mode selects the hash used to compare file contents
type Mode int

const (
	// Fast reads both files into memory and compares 64-bit XXH3 sums
	Fast Mode = iota
	// Secure streams both files through BLAKE2b-512
	Secure
)

func (m Mode) String() string {
	switch m {
	case Fast:
		return "fast"
	case Secure:
		return "secure"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "fast" or "secure"
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "fast", "":
		return Fast, nil
	case "secure":
		return Secure, nil
	default:
		return Fast, fmt.Errorf("unknown checksum mode: %q", s)
	}
}

// Same reports whether rel has identical content under srcRoot and destRoot.
// A hash that cannot be computed counts as a difference, so the caller copies
// and surfaces the underlying error there.
func Same(rel, srcRoot, destRoot string, mode Mode) bool {
	src := filepath.Join(srcRoot, rel)
	dest := filepath.Join(destRoot, rel)

	switch mode {
	case Secure:
		srcSum, err := FileSecure(src)
		if err != nil {
			return false
		}
		destSum, err := FileSecure(dest)
		if err != nil {
			return false
		}
		return bytes.Equal(srcSum, destSum)
	default:
		srcSum, err := FileFast(src)
		if err != nil {
			return false
		}
		destSum, err := FileFast(dest)
		if err != nil {
			return false
		}
		return srcSum == destSum
	}
}

// FileFast returns the XXH3 64-bit hash of the whole file
func FileFast(filePath string) (uint64, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("read file: %w", err)
	}
	return xxh3.Hash(data), nil
}

// FileSecure returns the BLAKE2b-512 digest of a file without loading it whole
func FileSecure(filePath string) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return CalculateSecure(file)
}

// CalculateSecure returns the BLAKE2b-512 digest of everything read from r
func CalculateSecure(r io.Reader) ([]byte, error) {
	hash, err := blake2b.New512(nil)
	if err != nil {
		return nil, fmt.Errorf("create hash: %w", err)
	}
	buffer := make([]byte, bufferSize)

	for {
		n, err := r.Read(buffer)
		if n > 0 {
			if _, err := hash.Write(buffer[:n]); err != nil {
				return nil, fmt.Errorf("write to hash: %w", err)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
	}

	return hash.Sum(nil), nil
}
