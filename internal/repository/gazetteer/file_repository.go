package gazetteer

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/eco-route-service/internal/domain"
	"github.com/eco-route-service/internal/domain/repository"
)

//go:embed data/locations.json
var embeddedLocations []byte

type fileRepository struct {
	path   string
	logger *zap.Logger
}

// NewFileRepository читает справочник из JSON файла.
// При пустом path используется набор данных, встроенный в бинарник.
func NewFileRepository(path string, logger *zap.Logger) repository.LocationRepository {
	return &fileRepository{
		path:   path,
		logger: logger,
	}
}

func (r *fileRepository) LoadAll(ctx context.Context) ([]domain.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw := embeddedLocations
	source := "embedded"
	if r.path != "" {
		data, err := os.ReadFile(r.path)
		if err != nil {
			return nil, fmt.Errorf("read gazetteer file: %w", err)
		}
		raw = data
		source = r.path
	}

	var locations []domain.Location
	if err := json.Unmarshal(raw, &locations); err != nil {
		return nil, fmt.Errorf("decode gazetteer %s: %w", source, err)
	}

	r.logger.Info("Gazetteer dataset read",
		zap.String("source", source),
		zap.Int("locations", len(locations)))

	return locations, nil
}
