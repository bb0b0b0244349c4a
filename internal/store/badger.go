// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campanile-app/campanile/internal/logging"
	"github.com/campanile-app/campanile/internal/models"
)

// Key prefixes for BadgerDB storage. Secondary keys (username, slug,
// per-user attendance) map back to primary keys for indexed lookups.
const (
	userKeyPrefix         = "user:"
	usernameKeyPrefix     = "user_name:"
	eventKeyPrefix        = "event:"
	eventSlugKeyPrefix    = "event_slug:"
	attendeeKeyPrefix     = "attendee:"
	attendeeUserKeyPrefix = "attendee_user:"
	ratingKeyPrefix       = "rating:"
	commentKeyPrefix      = "comment:"
	viewKeyPrefix         = "view:"
	notificationKeyPrefix = "notify:"
	preferenceKeyPrefix   = "pref:"
)

// BadgerStore implements Store on BadgerDB. All records are stored as JSON
// values under typed key prefixes; every method runs in a single Badger
// transaction, so Snapshot sees a consistent view.
type BadgerStore struct {
	db     *badger.DB
	logger zerolog.Logger
}

// Options configures the BadgerDB store.
type Options struct {
	// Path is the on-disk directory. Ignored when InMemory is set.
	Path string `koanf:"path"`
	// InMemory runs Badger without persistence. Used in tests.
	InMemory bool `koanf:"in_memory"`
}

// NewBadgerStore opens the database and returns the store. The caller owns
// the store and must Close it.
func NewBadgerStore(opts Options) (*BadgerStore, error) {
	badgerOpts := badger.DefaultOptions(opts.Path).
		WithInMemory(opts.InMemory).
		WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", opts.Path, err)
	}

	return &BadgerStore{
		db:     db,
		logger: logging.WithComponent("store"),
	}, nil
}

// Close flushes and closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// CreateUser inserts a new user, enforcing username uniqueness.
func (s *BadgerStore) CreateUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(userKeyPrefix + user.ID)); err == nil {
			return fmt.Errorf("user %s: %w", user.ID, ErrDuplicate)
		}
		if _, err := txn.Get([]byte(usernameKeyPrefix + user.Username)); err == nil {
			return fmt.Errorf("username %s: %w", user.Username, ErrDuplicate)
		}

		if err := txn.Set([]byte(userKeyPrefix+user.ID), data); err != nil {
			return fmt.Errorf("set user: %w", err)
		}
		return txn.Set([]byte(usernameKeyPrefix+user.Username), []byte(user.ID))
	})
}

// GetUser retrieves a user by id.
func (s *BadgerStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.getJSON(userKeyPrefix+id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername resolves the username index and loads the user.
func (s *BadgerStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(usernameKeyPrefix + username))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get username index: %w", err)
		}

		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}

		return getJSONTxn(txn, userKeyPrefix+id, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser replaces an existing user record.
func (s *BadgerStore) UpdateUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(userKeyPrefix + user.ID)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("user %s: %w", user.ID, ErrNotFound)
		} else if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// ListUsers returns all users.
func (s *BadgerStore) ListUsers(ctx context.Context) ([]models.User, error) {
	return listJSON[models.User](s.db, userKeyPrefix)
}

// CreateEvent inserts a new event, enforcing slug uniqueness.
func (s *BadgerStore) CreateEvent(ctx context.Context, event *models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(eventKeyPrefix + event.ID)); err == nil {
			return fmt.Errorf("event %s: %w", event.ID, ErrDuplicate)
		}
		if _, err := txn.Get([]byte(eventSlugKeyPrefix + event.Slug)); err == nil {
			return fmt.Errorf("slug %s: %w", event.Slug, ErrDuplicate)
		}

		if err := txn.Set([]byte(eventKeyPrefix+event.ID), data); err != nil {
			return fmt.Errorf("set event: %w", err)
		}
		return txn.Set([]byte(eventSlugKeyPrefix+event.Slug), []byte(event.ID))
	})
}

// GetEvent retrieves an event by id.
func (s *BadgerStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	if err := s.getJSON(eventKeyPrefix+id, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// GetEventBySlug resolves the slug index and loads the event.
func (s *BadgerStore) GetEventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	var event models.Event
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(eventSlugKeyPrefix + slug))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get slug index: %w", err)
		}

		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}

		return getJSONTxn(txn, eventKeyPrefix+id, &event)
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// UpdateEvent replaces an existing event record.
func (s *BadgerStore) UpdateEvent(ctx context.Context, event *models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(eventKeyPrefix + event.ID)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("event %s: %w", event.ID, ErrNotFound)
		} else if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// ListEvents returns all events.
func (s *BadgerStore) ListEvents(ctx context.Context) ([]models.Event, error) {
	return listJSON[models.Event](s.db, eventKeyPrefix)
}

// PutAttendee inserts or replaces the attendance record for the record's
// (event, user) pair and maintains the per-user reverse index.
func (s *BadgerStore) PutAttendee(ctx context.Context, attendee *models.EventAttendee) error {
	data, err := json.Marshal(attendee)
	if err != nil {
		return fmt.Errorf("marshal attendee: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(attendeeKeyPrefix + attendee.EventID + ":" + attendee.UserID)
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set attendee: %w", err)
		}

		userKey := []byte(attendeeUserKeyPrefix + attendee.UserID + ":" + attendee.EventID)
		return txn.Set(userKey, []byte(attendee.EventID))
	})
}

// GetAttendee retrieves one attendance record, or ErrNotFound.
func (s *BadgerStore) GetAttendee(ctx context.Context, eventID, userID string) (*models.EventAttendee, error) {
	var attendee models.EventAttendee
	if err := s.getJSON(attendeeKeyPrefix+eventID+":"+userID, &attendee); err != nil {
		return nil, err
	}
	return &attendee, nil
}

// ListAttendeesByEvent returns all attendance records for an event.
func (s *BadgerStore) ListAttendeesByEvent(ctx context.Context, eventID string) ([]models.EventAttendee, error) {
	return listJSON[models.EventAttendee](s.db, attendeeKeyPrefix+eventID+":")
}

// ListAttendanceByUser returns a user's attendance records via the reverse
// index.
func (s *BadgerStore) ListAttendanceByUser(ctx context.Context, userID string) ([]models.EventAttendee, error) {
	var out []models.EventAttendee

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(attendeeUserKeyPrefix + userID + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var eventID string
			if err := it.Item().Value(func(val []byte) error {
				eventID = string(val)
				return nil
			}); err != nil {
				return err
			}

			var attendee models.EventAttendee
			if err := getJSONTxn(txn, attendeeKeyPrefix+eventID+":"+userID, &attendee); err != nil {
				if errors.Is(err, ErrNotFound) {
					continue // index entry outlived the record
				}
				return err
			}
			out = append(out, attendee)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PutRating inserts or replaces the rating for the record's (event, user)
// pair.
func (s *BadgerStore) PutRating(ctx context.Context, rating *models.EventRating) error {
	return s.putJSON(ratingKeyPrefix+rating.EventID+":"+rating.UserID, rating)
}

// ListRatingsByEvent returns all ratings for an event.
func (s *BadgerStore) ListRatingsByEvent(ctx context.Context, eventID string) ([]models.EventRating, error) {
	return listJSON[models.EventRating](s.db, ratingKeyPrefix+eventID+":")
}

// AddComment appends a comment.
func (s *BadgerStore) AddComment(ctx context.Context, comment *models.EventComment) error {
	return s.putJSON(commentKeyPrefix+comment.EventID+":"+comment.ID, comment)
}

// ListCommentsByEvent returns all comments for an event.
func (s *BadgerStore) ListCommentsByEvent(ctx context.Context, eventID string) ([]models.EventComment, error) {
	return listJSON[models.EventComment](s.db, commentKeyPrefix+eventID+":")
}

// RecordView appends a view record under a fresh key.
func (s *BadgerStore) RecordView(ctx context.Context, view *models.ViewEvent) error {
	return s.putJSON(viewKeyPrefix+view.EventID+":"+uuid.NewString(), view)
}

// ListViewsByEvent returns all view records for an event.
func (s *BadgerStore) ListViewsByEvent(ctx context.Context, eventID string) ([]models.ViewEvent, error) {
	return listJSON[models.ViewEvent](s.db, viewKeyPrefix+eventID+":")
}

// AddNotification appends a notification for its recipient.
func (s *BadgerStore) AddNotification(ctx context.Context, n *models.Notification) error {
	return s.putJSON(notificationKeyPrefix+n.UserID+":"+n.ID, n)
}

// ListNotificationsByUser returns all notifications for a user.
func (s *BadgerStore) ListNotificationsByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	return listJSON[models.Notification](s.db, notificationKeyPrefix+userID+":")
}

// MarkNotificationRead flips the read flag on one notification.
func (s *BadgerStore) MarkNotificationRead(ctx context.Context, userID, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := notificationKeyPrefix + userID + ":" + id

		var n models.Notification
		if err := getJSONTxn(txn, key, &n); err != nil {
			return err
		}
		if n.IsRead {
			return nil
		}
		n.IsRead = true

		data, err := json.Marshal(&n)
		if err != nil {
			return fmt.Errorf("marshal notification: %w", err)
		}
		return txn.Set([]byte(key), data)
	})
}

// GetPreferences returns the stored preferences, or the defaults when the
// user has never saved any.
func (s *BadgerStore) GetPreferences(ctx context.Context, userID string) (*models.UserPreference, error) {
	var pref models.UserPreference
	err := s.getJSON(preferenceKeyPrefix+userID, &pref)
	if errors.Is(err, ErrNotFound) {
		defaults := models.DefaultPreferences(userID)
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// PutPreferences inserts or replaces a user's preferences.
func (s *BadgerStore) PutPreferences(ctx context.Context, pref *models.UserPreference) error {
	return s.putJSON(preferenceKeyPrefix+pref.UserID, pref)
}

// Snapshot reads every collection inside one read transaction, so the view
// is consistent even under concurrent writes.
func (s *BadgerStore) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	snap := &models.Snapshot{}

	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		if snap.Users, err = listJSONTxn[models.User](txn, userKeyPrefix); err != nil {
			return err
		}
		if snap.Events, err = listJSONTxn[models.Event](txn, eventKeyPrefix); err != nil {
			return err
		}
		if snap.Attendees, err = listJSONTxn[models.EventAttendee](txn, attendeeKeyPrefix); err != nil {
			return err
		}
		if snap.Ratings, err = listJSONTxn[models.EventRating](txn, ratingKeyPrefix); err != nil {
			return err
		}
		if snap.Comments, err = listJSONTxn[models.EventComment](txn, commentKeyPrefix); err != nil {
			return err
		}
		snap.Views, err = listJSONTxn[models.ViewEvent](txn, viewKeyPrefix)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return snap, nil
}

// putJSON marshals and stores one record.
func (s *BadgerStore) putJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// getJSON loads and unmarshals one record, mapping missing keys to
// ErrNotFound.
func (s *BadgerStore) getJSON(key string, v interface{}) error {
	return s.db.View(func(txn *badger.Txn) error {
		return getJSONTxn(txn, key, v)
	})
}

func getJSONTxn(txn *badger.Txn, key string, v interface{}) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %q: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

// listJSON collects every record under a prefix.
func listJSON[T any](db *badger.DB, prefix string) ([]T, error) {
	var out []T
	err := db.View(func(txn *badger.Txn) error {
		var err error
		out, err = listJSONTxn[T](txn, prefix)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func listJSONTxn[T any](txn *badger.Txn, prefix string) ([]T, error) {
	var out []T

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	it := txn.NewIterator(opts)
	defer it.Close()

	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		var record T
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
		if err != nil {
			return nil, fmt.Errorf("unmarshal %q: %w", it.Item().Key(), err)
		}
		out = append(out, record)
	}
	return out, nil
}
