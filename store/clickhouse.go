// Package store keeps uploaded sheets in ClickHouse, spoken to over its
// MySQL protocol port with gorm.
package store

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
	"github.com/pivolan/go_utils"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pivolan/sheet_analyzer/domain/models"
)

type Store struct {
	db *gorm.DB
}

func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to clickhouse")
	}
	return &Store{db: db}, nil
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Columns(ctx context.Context, table models.ClickhouseTableName) ([]models.ColumnInfo, error) {
	var columns []models.ColumnInfo
	tx := s.db.WithContext(ctx).Raw(fmt.Sprintf("DESCRIBE TABLE %s", table)).Scan(&columns)
	if tx.Error != nil {
		return nil, errors.Wrapf(tx.Error, "describe %s", table)
	}
	return columns, nil
}

// Contents reads up to limit rows of table as strings. NULL cells are blank.
// The row count of the whole table is returned as well.
func (s *Store) Contents(ctx context.Context, table models.ClickhouseTableName, limit int) (models.SheetContents, int, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if tx := db.Raw(countSQL(table)).Scan(&total); tx.Error != nil {
		return nil, 0, errors.Wrapf(tx.Error, "count %s", table)
	}

	columns, err := s.Columns(ctx, table)
	if err != nil {
		return nil, 0, err
	}
	names := make([]string, 0, len(columns))
	for _, c := range columns {
		if excludeColumn(c.Name) {
			continue
		}
		names = append(names, c.Name)
	}
	if len(names) == 0 {
		return models.SheetContents{}, int(total), nil
	}

	rows, err := db.Raw(selectSQL(table, names, limit)).Rows()
	if err != nil {
		return nil, 0, errors.Wrapf(err, "select %s", table)
	}
	defer rows.Close()

	contents := make(models.SheetContents, len(names))
	for _, n := range names {
		contents[n] = []string{}
	}
	cells := make([]sql.NullString, len(names))
	dest := make([]interface{}, len(names))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, errors.Wrap(err, "scan row")
		}
		for i, n := range names {
			contents[n] = append(contents[n], cells[i].String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "read rows")
	}
	return contents, int(total), nil
}

func countSQL(table models.ClickhouseTableName) string {
	return "SELECT count() FROM " + string(table)
}

// Cells are cast to strings on the server so every type scans the same way.
func selectSQL(table models.ClickhouseTableName, columns []string, limit int) string {
	fields := make([]string, len(columns))
	for i, c := range columns {
		fields[i] = fmt.Sprintf("toString(%s)", c)
	}
	sql := "SELECT " + strings.Join(fields, ", ") + " FROM " + string(table)
	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", limit)
	}
	return sql
}

func excludeColumn(name string) bool {
	return go_utils.InArray(name, []string{"id", "slug"})
}

func getMD5String(input string) string {
	hasher := md5.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}

var nonIdentifier = regexp.MustCompile("[^a-zA-Z0-9]+")

// columnIdentifier turns a header into a ClickHouse identifier,
// transliterating non latin letters.
func columnIdentifier(header string, index int) string {
	s := nonIdentifier.ReplaceAllString(unidecode.Unidecode(header), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return generateColumnName(index)
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "c_" + s
	}
	return s
}
