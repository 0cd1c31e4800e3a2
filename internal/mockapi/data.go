package mockapi

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/shlokadmin/internal/model"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Admin is an operator account. Only the bcrypt hash of the password is kept.
type Admin struct {
	model.Principal
	hash []byte
}

// Data is the in-memory dataset behind the mock backend.
type Data struct {
	mu     sync.RWMutex
	admins map[string]*Admin // by email
	shloks []model.Shlok
	videos []model.VideoLink
	users  []model.User
}

// NewData returns an empty dataset.
func NewData() *Data {
	return &Data{admins: make(map[string]*Admin)}
}

// AddAdmin registers an operator and returns its id.
func (d *Data) AddAdmin(name, email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	a := &Admin{
		Principal: model.Principal{ID: uuid.NewString(), Name: name, Email: email, Role: "admin"},
		hash:      hash,
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.admins[strings.ToLower(email)]; ok {
		return "", ErrDuplicate
	}
	d.admins[strings.ToLower(email)] = a
	return a.ID, nil
}

// Authenticate checks an email/password pair.
func (d *Data) Authenticate(email, password string) (model.Principal, bool) {
	d.mu.RLock()
	a, ok := d.admins[strings.ToLower(email)]
	d.mu.RUnlock()
	if !ok || bcrypt.CompareHashAndPassword(a.hash, []byte(password)) != nil {
		return model.Principal{}, false
	}
	return a.Principal, true
}

// Admin returns the operator with the given id.
func (d *Data) Admin(id string) (model.Principal, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, a := range d.admins {
		if a.ID == id {
			return a.Principal, true
		}
	}
	return model.Principal{}, false
}

// ShlokKey is the bookmark key of a record, e.g. "2_47".
func ShlokKey(s model.Shlok) string {
	return chapterNum(s.ChapterName) + "_" + strconv.Itoa(s.Shlok)
}

func chapterNum(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return name
	}
	return fields[len(fields)-1]
}

func matches(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func window[T any](items []T, page, limit int) ([]T, model.Pagination) {
	total := len(items)
	pages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := min(start+limit, total)
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, model.Pagination{Page: page, Pages: pages, Total: total}
}

// Shloks returns one page of records matching search.
func (d *Data) Shloks(page, limit int, search string) ([]model.Shlok, model.Pagination) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var hits []model.Shlok
	for _, s := range d.shloks {
		if matches(search, s.ChapterName, strconv.Itoa(s.Shlok), s.Speaker, s.Theme, s.Summary) {
			hits = append(hits, s)
		}
	}
	return window(hits, page, limit)
}

// AddShlok appends a record.
func (d *Data) AddShlok(s model.Shlok) {
	d.mu.Lock()
	d.shloks = append(d.shloks, s)
	d.mu.Unlock()
}

// UpdateShlok replaces the record at absolute position pos.
func (d *Data) UpdateShlok(pos int, s model.Shlok) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if pos < 0 || pos >= len(d.shloks) {
		return ErrNotFound
	}
	d.shloks[pos] = s
	return nil
}

// DeleteShlok removes the record at absolute position pos.
func (d *Data) DeleteShlok(pos int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if pos < 0 || pos >= len(d.shloks) {
		return ErrNotFound
	}
	d.shloks = append(d.shloks[:pos], d.shloks[pos+1:]...)
	return nil
}

// Videos returns every video link in insertion order.
func (d *Data) Videos() []model.VideoLink {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]model.VideoLink, len(d.videos))
	copy(out, d.videos)
	return out
}

func (d *Data) videoIndex(key string) int {
	for i, v := range d.videos {
		if v.Key == key {
			return i
		}
	}
	return -1
}

// AddVideo inserts a new link. Keys are unique.
func (d *Data) AddVideo(v model.VideoLink) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.videoIndex(v.Key) >= 0 {
		return ErrDuplicate
	}
	d.videos = append(d.videos, v)
	return nil
}

// UpdateVideo changes the URL of key.
func (d *Data) UpdateVideo(key, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.videoIndex(key)
	if i < 0 {
		return ErrNotFound
	}
	d.videos[i].URL = url
	return nil
}

// DeleteVideo removes key.
func (d *Data) DeleteVideo(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.videoIndex(key)
	if i < 0 {
		return ErrNotFound
	}
	d.videos = append(d.videos[:i], d.videos[i+1:]...)
	return nil
}

// Users returns one page of accounts matching search, newest first.
func (d *Data) Users(page, limit int, search string) ([]model.User, model.Pagination) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var hits []model.User
	for _, u := range d.users {
		if matches(search, u.Email, u.Name, u.Phone) {
			hits = append(hits, u)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return joined(hits[i]).After(joined(hits[j])) })
	return window(hits, page, limit)
}

func joined(u model.User) time.Time {
	if u.CreatedAt == nil {
		return time.Time{}
	}
	return *u.CreatedAt
}

// AddUser appends an account.
func (d *Data) AddUser(u model.User) {
	d.mu.Lock()
	d.users = append(d.users, u)
	d.mu.Unlock()
}

func (d *Data) userIndex(email string) int {
	for i, u := range d.users {
		if strings.EqualFold(u.Email, email) {
			return i
		}
	}
	return -1
}

// User returns the account with email.
func (d *Data) User(email string) (model.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	i := d.userIndex(email)
	if i < 0 {
		return model.User{}, ErrNotFound
	}
	return d.users[i], nil
}

// DeleteUser removes the account with email.
func (d *Data) DeleteUser(email string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.userIndex(email)
	if i < 0 {
		return ErrNotFound
	}
	d.users = append(d.users[:i], d.users[i+1:]...)
	return nil
}
