package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migration é uma linha de schema_migrations
type Migration struct {
	ID        uint   `gorm:"primaryKey"`
	Version   int64  `gorm:"uniqueIndex"`
	Name      string `gorm:"size:255"`
	Checksum  string `gorm:"size:64"`
	AppliedAt time.Time
}

func (Migration) TableName() string {
	return "schema_migrations"
}

// MigrationFile é um script encontrado no diretório de migrações.
// Arquivos "<versão>_<nome>.sql" valem para todos os bancos;
// "<versão>_<nome>.<driver>.sql" apenas para o driver indicado.
type MigrationFile struct {
	Version  int64
	Name     string
	Dialect  string
	Path     string
	Checksum string
}

// MigrationStatus descreve uma migração conhecida e se já foi aplicada
type MigrationStatus struct {
	MigrationFile
	Applied   bool
	AppliedAt *time.Time
	Modified  bool
}

var migrationFileName = regexp.MustCompile(`^(\d+)_([a-z0-9_]+?)(?:\.(sqlite|mysql|postgres))?\.sql$`)

// MigrationManager aplica os scripts SQL versionados que complementam o AutoMigrate
type MigrationManager struct {
	db        *gorm.DB
	logger    *zap.Logger
	directory string
	dialect   string
}

func NewMigrationManager(db *gorm.DB, logger *zap.Logger, directory string) *MigrationManager {
	return &MigrationManager{
		db:        db,
		logger:    logger.With(zap.String("component", "migrations")),
		directory: directory,
		dialect:   db.Dialector.Name(),
	}
}

// ApplyMigrations executa, em ordem de versão, os scripts ainda não registrados.
// Cada script roda numa transação junto com o seu registro em schema_migrations.
func (m *MigrationManager) ApplyMigrations(ctx context.Context) error {
	status, err := m.Status(ctx)
	if err != nil {
		return err
	}

	applied := 0
	for _, s := range status {
		if s.Applied {
			if s.Modified {
				m.logger.Warn("Script alterado depois de aplicado",
					zap.Int64("version", s.Version),
					zap.String("name", s.Name))
			}
			continue
		}

		start := time.Now()
		if err := m.apply(ctx, s.MigrationFile); err != nil {
			return fmt.Errorf("migração %d_%s: %w", s.Version, s.Name, err)
		}
		applied++
		m.logger.Info("Migração aplicada",
			zap.Int64("version", s.Version),
			zap.String("name", s.Name),
			zap.String("dialect", m.dialect),
			zap.Duration("duration", time.Since(start)))
	}

	if applied == 0 {
		m.logger.Debug("Nenhuma migração SQL pendente", zap.String("directory", m.directory))
	}
	return nil
}

func (m *MigrationManager) apply(ctx context.Context, file MigrationFile) error {
	content, err := os.ReadFile(file.Path)
	if err != nil {
		return err
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range splitStatements(string(content)) {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return tx.Create(&Migration{
			Version:   file.Version,
			Name:      file.Name,
			Checksum:  file.Checksum,
			AppliedAt: time.Now(),
		}).Error
	})
}

// Status cruza os scripts do diretório com o que já consta em schema_migrations
func (m *MigrationManager) Status(ctx context.Context) ([]MigrationStatus, error) {
	if err := m.db.WithContext(ctx).AutoMigrate(&Migration{}); err != nil {
		return nil, fmt.Errorf("falha ao criar schema_migrations: %w", err)
	}

	var rows []Migration
	if err := m.db.WithContext(ctx).Order("version").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("falha ao ler schema_migrations: %w", err)
	}
	done := make(map[int64]Migration, len(rows))
	for _, r := range rows {
		done[r.Version] = r
	}

	files, err := m.files()
	if err != nil {
		return nil, err
	}

	status := make([]MigrationStatus, 0, len(files))
	for _, f := range files {
		s := MigrationStatus{MigrationFile: f}
		if r, ok := done[f.Version]; ok {
			appliedAt := r.AppliedAt
			s.Applied = true
			s.AppliedAt = &appliedAt
			s.Modified = r.Checksum != "" && r.Checksum != f.Checksum
		}
		status = append(status, s)
	}
	return status, nil
}

// files lista os scripts do diretório que se aplicam ao driver atual
func (m *MigrationManager) files() ([]MigrationFile, error) {
	if m.directory == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(m.directory)
	if errors.Is(err, fs.ErrNotExist) {
		m.logger.Warn("Diretório de migrações não encontrado", zap.String("directory", m.directory))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao listar migrações: %w", err)
	}

	var files []MigrationFile
	seen := make(map[int64]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		match := migrationFileName.FindStringSubmatch(entry.Name())
		if match == nil {
			m.logger.Warn("Nome de migração fora do padrão", zap.String("file", entry.Name()))
			continue
		}
		if match[3] != "" && match[3] != m.dialect {
			continue
		}

		version, err := strconv.ParseInt(match[1], 10, 64)
		if err != nil {
			m.logger.Warn("Versão de migração inválida", zap.String("file", entry.Name()))
			continue
		}
		if other, dup := seen[version]; dup {
			return nil, fmt.Errorf("versão %d repetida em %s e %s", version, other, entry.Name())
		}
		seen[version] = entry.Name()

		path := filepath.Join(m.directory, entry.Name())
		sum, err := checksum(path)
		if err != nil {
			return nil, err
		}

		files = append(files, MigrationFile{
			Version:  version,
			Name:     match[2],
			Dialect:  match[3],
			Path:     path,
			Checksum: sum,
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

func checksum(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:]), nil
}

// splitStatements separa o script em comandos por ponto e vírgula,
// respeitando literais entre aspas e comentários. Comandos só com comentários são descartados.
func splitStatements(script string) []string {
	var (
		out     []string
		current strings.Builder
		quote   byte
		code    bool
	)

	flush := func() {
		if code {
			out = append(out, strings.TrimSpace(current.String()))
		}
		current.Reset()
		code = false
	}

	for i := 0; i < len(script); i++ {
		ch := script[i]

		switch {
		case quote != 0:
			current.WriteByte(ch)
			if ch == quote {
				quote = 0
			}
			continue
		case ch == '-' && strings.HasPrefix(script[i:], "--"):
			end := strings.IndexByte(script[i:], '\n')
			if end < 0 {
				i = len(script)
			} else {
				i += end
			}
			current.WriteByte('\n')
			continue
		case ch == '/' && strings.HasPrefix(script[i:], "/*"):
			end := strings.Index(script[i+2:], "*/")
			if end < 0 {
				i = len(script)
			} else {
				i += end + 3
			}
			current.WriteByte(' ')
			continue
		case ch == ';':
			flush()
			continue
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
		}

		current.WriteByte(ch)
		if ch > ' ' {
			code = true
		}
	}
	flush()

	return out
}

// CreateMigration grava um script vazio com a próxima versão.
// dialect vazio gera um script comum a todos os bancos.
func (m *MigrationManager) CreateMigration(name, dialect string) (string, error) {
	slug := strings.Trim(regexp.MustCompile(`[^a-z0-9]+`).ReplaceAllString(strings.ToLower(name), "_"), "_")
	if slug == "" {
		return "", fmt.Errorf("nome de migração inválido: %q", name)
	}

	filename := time.Now().Format("20060102150405") + "_" + slug
	switch dialect {
	case "":
	case "sqlite", "mysql", "postgres":
		filename += "." + dialect
	default:
		return "", fmt.Errorf("driver de migração não suportado: %s", dialect)
	}
	filename += ".sql"

	if err := os.MkdirAll(m.directory, 0o755); err != nil {
		return "", fmt.Errorf("falha ao criar diretório: %w", err)
	}

	path := filepath.Join(m.directory, filename)
	header := fmt.Sprintf("-- %s\n-- Comandos separados por ponto e vírgula, executados numa única transação.\n", slug)
	if err := os.WriteFile(path, []byte(header), 0o644); err != nil {
		return "", fmt.Errorf("falha ao criar arquivo: %w", err)
	}
	return path, nil
}
