package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/invoice-flattener/internal/types"
)

// LoadExpired reads the expired-invoice identifiers at path.
//
// A missing file is not an error: an empty set is returned together with a
// missing_expired_file diagnostic. Any other read failure is returned.
func LoadExpired(path string, log zerolog.Logger) (types.ExpiredSet, []types.Diagnostic, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		diag := types.Diagnostic{
			Kind:    types.DiagMissingExpiredFile,
			Value:   path,
			Message: "expired invoices file not found, no invoice is marked expired",
		}
		log.Warn().Str("path", path).Msg(diag.Message)
		return types.NewExpiredSet(), []types.Diagnostic{diag}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open expired invoices file: %w", err)
	}
	defer file.Close()

	set, err := ReadExpired(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	log.Info().
		Str("path", path).
		Int("expired", len(set)).
		Msg("Expired invoices loaded")

	return set, nil, nil
}

// ReadExpired parses newline-delimited identifiers from r.
func ReadExpired(r io.Reader) (types.ExpiredSet, error) {
	set := types.NewExpiredSet()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return set, nil
}
