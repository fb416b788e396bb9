package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

var chatPrefix = []byte("chat:")

func chatKey(m *ChatMessage) []byte {
	return []byte(fmt.Sprintf("chat:%019d:%s", m.Timestamp.UnixNano(), m.ID))
}

// AppendChatMessage stores one chat turn, filling ID and Timestamp when empty
func (s *Store) AppendChatMessage(ctx context.Context, m *ChatMessage) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}

	data, err := json.Marshal(m)
	if err != nil {
		return writeErr(err, "chat message")
	}

	err = s.badger.Update(func(txn *badger.Txn) error {
		return txn.Set(chatKey(m), data)
	})
	if err != nil {
		return writeErr(err, "chat message")
	}
	return nil
}

// ChatHistory returns up to limit of the most recent messages, oldest first.
// A non-positive limit uses the configured default.
func (s *Store) ChatHistory(ctx context.Context, limit int) ([]ChatMessage, error) {
	if limit <= 0 {
		limit = s.chatLimit
	}

	msgs := make([]ChatMessage, 0, limit)
	err := s.badger.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = chatPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		// reverse iteration must start past the last key of the prefix
		seek := append(append([]byte{}, chatPrefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(chatPrefix) && len(msgs) < limit; it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var m ChatMessage
			if err := it.Item().Value(func(v []byte) error {
				return json.Unmarshal(v, &m)
			}); err != nil {
				return err
			}
			msgs = append(msgs, m)
		}
		return nil
	})
	if err != nil {
		return nil, readErr(err, "chat history", "")
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// ClearChat deletes the whole chat history
func (s *Store) ClearChat(ctx context.Context) error {
	if err := s.badger.DropPrefix(chatPrefix); err != nil {
		return writeErr(err, "chat history")
	}
	return nil
}
