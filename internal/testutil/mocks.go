package testutil

import (
	"context"
	"fmt"

	"github.com/voicegenapp/api-voicegen/internal/model"
	"github.com/voicegenapp/api-voicegen/internal/repository"
)

// FakeKV is an in-memory device.Storage implementation.
type FakeKV struct {
	Data map[string]string
}

func NewFakeKV() *FakeKV {
	return &FakeKV{Data: make(map[string]string)}
}

func (f *FakeKV) Get(key string) (string, bool) {
	v, ok := f.Data[key]
	return v, ok
}

func (f *FakeKV) Set(key, value string) error {
	f.Data[key] = value
	return nil
}

func (f *FakeKV) Delete(key string) error {
	delete(f.Data, key)
	return nil
}

// FakeRemote is an in-memory service.RemoteStore. Setting Offline
// makes every operation fail with ErrRemoteUnavailable.
type FakeRemote struct {
	Records map[string]*model.LedgerRecord
	Offline bool

	CreateCalls int
	PatchCalls  int
}

func NewFakeRemote() *FakeRemote {
	return &FakeRemote{Records: make(map[string]*model.LedgerRecord)}
}

func (f *FakeRemote) Create(ctx context.Context, rec *model.LedgerRecord) error {
	if f.Offline {
		return fmt.Errorf("%w: fake offline", repository.ErrRemoteUnavailable)
	}
	f.CreateCalls++
	f.Records[rec.DeviceID] = rec.Clone()
	return nil
}

func (f *FakeRemote) Read(ctx context.Context, deviceID string) (*model.LedgerRecord, error) {
	if f.Offline {
		return nil, fmt.Errorf("%w: fake offline", repository.ErrRemoteUnavailable)
	}
	rec, ok := f.Records[deviceID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return rec.Clone(), nil
}

func (f *FakeRemote) Patch(ctx context.Context, deviceID string, fields map[string]interface{}) error {
	if f.Offline {
		return fmt.Errorf("%w: fake offline", repository.ErrRemoteUnavailable)
	}
	f.PatchCalls++
	rec, ok := f.Records[deviceID]
	if !ok {
		// Merge semantics create the document if missing.
		rec = &model.LedgerRecord{DeviceID: deviceID}
		f.Records[deviceID] = rec
	}
	for name, value := range fields {
		switch name {
		case "credits":
			rec.Credits = value.(int)
		case "username":
			rec.Username = value.(string)
		case "dailyAdsWatched":
			rec.DailyAdsWatched = value.(model.DailyAdQuota)
		case "generationHistory":
			rec.GenerationHistory = value.([]model.GenerationEntry)
		case "hasUsedFreeGeneration":
			rec.HasUsedFreeGeneration = value.(bool)
		default:
			return fmt.Errorf("fake remote: unknown field %q", name)
		}
	}
	return nil
}

func (f *FakeRemote) Remove(ctx context.Context, deviceID string) error {
	if f.Offline {
		return fmt.Errorf("%w: fake offline", repository.ErrRemoteUnavailable)
	}
	delete(f.Records, deviceID)
	return nil
}

func (f *FakeRemote) Online(ctx context.Context) bool {
	return !f.Offline
}

// FakeMirror is an in-memory service.LocalMirror.
type FakeMirror struct {
	Records map[string]*model.LedgerRecord
}

func NewFakeMirror() *FakeMirror {
	return &FakeMirror{Records: make(map[string]*model.LedgerRecord)}
}

func (f *FakeMirror) Load(deviceID string) (*model.LedgerRecord, error) {
	rec, ok := f.Records[deviceID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return rec.Clone(), nil
}

func (f *FakeMirror) Store(rec *model.LedgerRecord) error {
	f.Records[rec.DeviceID] = rec.Clone()
	return nil
}

func (f *FakeMirror) Delete(deviceID string) error {
	delete(f.Records, deviceID)
	return nil
}
