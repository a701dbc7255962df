package store

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"github.com/viant/afs"
	"golang.org/x/oauth2"
)

// FileStore persists the token pair to a JSON document addressed by an afs
// URL (a plain path, file://, mem:// or any other supported scheme). It is a
// lightweight way to keep a session across CLI invocations.
type FileStore struct {
	mu    sync.RWMutex
	fs    afs.Service
	url   string
	token *oauth2.Token
}

// NewFileStore creates a Store persisted at the given afs URL; a previously
// saved token pair is loaded eagerly.
func NewFileStore(URL string) Store {
	ret := &FileStore{fs: afs.New(), url: URL}
	_ = ret.load()
	return ret
}

func (f *FileStore) SetTokens(token *oauth2.Token) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = cloneToken(token)
	return f.save()
}

func (f *FileStore) Lookup() (*oauth2.Token, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.token == nil {
		return nil, false
	}
	return cloneToken(f.token), true
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = nil
	ctx := context.Background()
	if ok, _ := f.fs.Exists(ctx, f.url); ok {
		return f.fs.Delete(ctx, f.url)
	}
	return nil
}

func (f *FileStore) HasRefreshToken() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.token != nil && f.token.RefreshToken != ""
}

type fileSnapshot struct {
	Token *oauth2.Token `json:"token"`
}

func (f *FileStore) save() error {
	data, err := json.MarshalIndent(fileSnapshot{Token: f.token}, "", "  ")
	if err != nil {
		return err
	}
	return f.fs.Upload(context.Background(), f.url, 0o600, bytes.NewReader(data))
}

func (f *FileStore) load() error {
	ctx := context.Background()
	if ok, err := f.fs.Exists(ctx, f.url); err != nil || !ok {
		return err
	}
	data, err := f.fs.DownloadWithURL(ctx, f.url)
	if err != nil {
		return err
	}
	var snap fileSnapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return err
	}
	f.token = snap.Token
	return nil
}
