// Package store persists decoded LLDP reports in a sqlite database so that a
// saved report can be read back without re-reading introspection data.
package store

import (
	"encoding/json"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javadmohebbi/lldpreport"
)

// AttributeRecord is one decoded attribute of one interface. Value holds the
// JSON encoding of the attribute value.
type AttributeRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Node      string `gorm:"index"`
	Interface string
	Position  int
	Field     string
	Value     string
}

// Store wraps the report database.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the sqlite database at path and migrates
// its schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "opening database %s", path)
	}
	if err := db.AutoMigrate(&AttributeRecord{}); err != nil {
		return nil, errors.Wrap(err, "migrating database")
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveReport replaces the stored attributes of every node present in r.
// Nodes not in r are left untouched.
func (s *Store) SaveReport(r lldpreport.Report) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, node := range r.Nodes() {
			if err := tx.Where("node = ?", node).Delete(&AttributeRecord{}).Error; err != nil {
				return errors.Wrapf(err, "clearing node %s", node)
			}

			var records []AttributeRecord
			for iface, ir := range r[node] {
				for pos, a := range ir.Attributes {
					value, err := json.Marshal(a.Value())
					if err != nil {
						return errors.Wrapf(err, "encoding %s on %s:%s", a.Field(), node, iface)
					}
					records = append(records, AttributeRecord{
						Node:      node,
						Interface: iface,
						Position:  pos,
						Field:     a.Field(),
						Value:     string(value),
					})
				}
			}
			if len(records) == 0 {
				continue
			}
			if err := tx.CreateInBatches(records, 100).Error; err != nil {
				return errors.Wrapf(err, "saving node %s", node)
			}
		}
		return nil
	})
}

// Bindings returns the stored report in the same shape as
// lldpreport.Report.Bindings. List values come back as []any.
func (s *Store) Bindings() (map[string]map[string]map[string]any, error) {
	var records []AttributeRecord
	err := s.db.Order("node, interface, position").Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "loading report")
	}

	out := map[string]map[string]map[string]any{}
	for _, rec := range records {
		intfs, ok := out[rec.Node]
		if !ok {
			intfs = map[string]map[string]any{}
			out[rec.Node] = intfs
		}
		bindings, ok := intfs[rec.Interface]
		if !ok {
			bindings = map[string]any{}
			intfs[rec.Interface] = bindings
		}
		var v any
		if err := json.Unmarshal([]byte(rec.Value), &v); err != nil {
			return nil, errors.Wrapf(err, "decoding %s on %s:%s", rec.Field, rec.Node, rec.Interface)
		}
		bindings[rec.Field] = v
	}
	return out, nil
}

// Nodes returns the node UUIDs present in the database.
func (s *Store) Nodes() ([]string, error) {
	var nodes []string
	err := s.db.Model(&AttributeRecord{}).Distinct("node").Order("node").Pluck("node", &nodes).Error
	return nodes, errors.Wrap(err, "listing nodes")
}
