// Package mapper holds generic helpers shared by the persistence mappers.
package mapper

import "fmt"

// MapRows converts stored rows into domain entities. Nil rows and nil
// results are dropped; the first failure aborts with the offending row ID.
func MapRows[M any, E any, ID any](rows []*M, convert func(*M) (*E, error), rowID func(*M) ID) ([]*E, error) {
	if rows == nil {
		return nil, nil
	}

	out := make([]*E, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		entity, err := convert(row)
		if err != nil {
			return nil, fmt.Errorf("failed to map row %v: %w", rowID(row), err)
		}
		if entity != nil {
			out = append(out, entity)
		}
	}
	return out, nil
}
