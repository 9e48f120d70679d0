package syncer

import (
	"encoding/json"
	"fmt"
	"sort"

	"possync/internal/app/client/kv"
)

// Ключи служебных данных синхронизации
const (
	KeyLastSyncTime      = "sync:last_sync_time"
	KeySyncedSaleIDs     = "sync:synced_sale_ids"
	KeySyncedMovementIDs = "sync:synced_movement_ids"
)

// bookkeeping отметка последней синхронизации и множества отправленных id
type bookkeeping struct {
	kv kv.Storage
}

// lastSyncTime возвращает пустую строку, если синхронизации еще не было
func (b bookkeeping) lastSyncTime() (string, error) {
	value, ok, err := b.kv.GetItem(KeyLastSyncTime)
	if err != nil {
		return "", fmt.Errorf("ошибка чтения времени синхронизации: %w", err)
	}
	if !ok {
		return "", nil
	}
	return value, nil
}

func (b bookkeeping) setLastSyncTime(ts string) error {
	if err := b.kv.SetItem(KeyLastSyncTime, ts); err != nil {
		return fmt.Errorf("ошибка записи времени синхронизации: %w", err)
	}
	return nil
}

func (b bookkeeping) syncedIDs(key string) (map[string]struct{}, error) {
	value, ok, err := b.kv.GetItem(key)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения %s: %w", key, err)
	}
	set := make(map[string]struct{})
	if !ok || value == "" {
		return set, nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(value), &ids); err != nil {
		return nil, fmt.Errorf("ошибка разбора %s: %w", key, err)
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// addSyncedIDs дописывает id в множество и сразу сохраняет его
func (b bookkeeping) addSyncedIDs(key string, set map[string]struct{}, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}

	all := make([]string, 0, len(set))
	for id := range set {
		all = append(all, id)
	}
	sort.Strings(all)

	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("ошибка сериализации %s: %w", key, err)
	}
	if err := b.kv.SetItem(key, string(data)); err != nil {
		return fmt.Errorf("ошибка записи %s: %w", key, err)
	}
	return nil
}
