package datastore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// UpsertCall запись об одном вызове Upsert
type UpsertCall struct {
	Table string
	IDs   []string
}

// Memory хранилище в памяти с тем же контрактом, что и удаленная сторона.
// Используется в тестах и во встроенных сценариях без сервера.
type Memory struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]any
	calls  []UpsertCall

	// Ошибки, которые нужно вернуть для конкретной таблицы
	UpsertErr map[string]error
	SelectErr map[string]error
	// OnUpsert вызывается перед каждой записью под блокировкой, ошибка отклоняет пачку целиком
	OnUpsert func(table string) error
	// OnSelect вызывается перед каждым чтением, вне блокировки
	OnSelect func(q Query)
}

// NewMemory создает пустое хранилище
func NewMemory() *Memory {
	return &Memory{
		tables:    make(map[string]map[string]map[string]any),
		UpsertErr: make(map[string]error),
		SelectErr: make(map[string]error),
	}
}

func (m *Memory) Upsert(_ context.Context, table string, rows any, conflictKey string) error {
	if err := ValidateTable(table); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.UpsertErr[table]; err != nil {
		return err
	}
	if m.OnUpsert != nil {
		if err := m.OnUpsert(table); err != nil {
			return err
		}
	}

	decoded, err := toMaps(rows)
	if err != nil {
		return err
	}

	// пачка применяется целиком или не применяется вовсе, как в одном SQL-запросе
	call := UpsertCall{Table: table, IDs: make([]string, 0, len(decoded))}
	for i, row := range decoded {
		key, _ := row[conflictKey].(string)
		if key == "" {
			return fmt.Errorf("row %d without %s in %s", i, conflictKey, table)
		}
		call.IDs = append(call.IDs, key)
	}

	t, ok := m.tables[table]
	if !ok {
		t = make(map[string]map[string]any)
		m.tables[table] = t
	}

	for i, row := range decoded {
		key := call.IDs[i]
		if existing, ok := t[key]; ok {
			// чужая строка с тем же id не перезаписывается
			if existing["shop_id"] != row["shop_id"] || !Newer(table, row, existing) {
				continue
			}
		}
		t[key] = row
	}
	m.calls = append(m.calls, call)

	return nil
}

func (m *Memory) Select(_ context.Context, q Query, dest any) error {
	if err := q.Validate(); err != nil {
		return err
	}
	if m.OnSelect != nil {
		m.OnSelect(q)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.SelectErr[q.Table]; err != nil {
		return err
	}

	result := make([]map[string]any, 0)
	for _, row := range m.tables[q.Table] {
		if shop, _ := row["shop_id"].(string); shop != q.ShopID {
			continue
		}
		ts, _ := row[q.Column].(string)
		if q.After != "" && ts <= q.After {
			continue
		}
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool {
		a, _ := result[i][q.Column].(string)
		b, _ := result[j][q.Column].(string)
		return a < b
	})

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Put кладет строку напрямую, минуя журнал вызовов
func (m *Memory) Put(table string, row any) error {
	decoded, err := toMaps([]any{row})
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[table]
	if !ok {
		t = make(map[string]map[string]any)
		m.tables[table] = t
	}
	id, _ := decoded[0][ConflictKey].(string)
	t[id] = decoded[0]
	return nil
}

// Count число строк в таблице
func (m *Memory) Count(table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tables[table])
}

// Row возвращает строку таблицы
func (m *Memory) Row(table, id string) (map[string]any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.tables[table][id]
	return row, ok
}

// Calls возвращает журнал вызовов Upsert для таблицы
func (m *Memory) Calls(table string) []UpsertCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []UpsertCall
	for _, c := range m.calls {
		if c.Table == table {
			out = append(out, c)
		}
	}
	return out
}

func toMaps(rows any) ([]map[string]any, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("marshal rows: %w", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("rows must be a list of objects: %w", err)
	}
	return decoded, nil
}
