package widget

import (
	"context"
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/habitmap/internal/heatmap"
	"github.com/christopherklint97/habitmap/internal/store"
)

type memBindings map[string]string

func (m memBindings) GetWidgetList(id string) (string, error) { return m[id], nil }
func (m memBindings) SetWidgetList(id, list string) error   { m[id] = list; return nil }
func (m memBindings) DeleteWidget(id string) error           { delete(m, id); return nil }
func (m memBindings) ListWidgets() ([]store.Binding, error) {
	var out []store.Binding
	for id, list := range m {
		out = append(out, store.Binding{WidgetID: id, ListID: list})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WidgetID < out[j].WidgetID })
	return out, nil
}

const payload = `{"Errands": {"01-01-2024": [{"category":"Work"}]}, "Gym": {"02-01-2024": [{"category":"Health"}]}}`

func newTestService(t *testing.T, src Source) (*Service, memBindings) {
	t.Helper()
	b := memBindings{}
	svc := New(b, src, heatmap.DefaultOptions(), t.TempDir(), nil)
	svc.Now = func() time.Time { return time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC) }
	return svc, b
}

func TestConfigureRendersPNG(t *testing.T) {
	svc, b := newTestService(t, StaticSource(payload))

	res, err := svc.Configure(context.Background(), "17", "Errands")
	require.NoError(t, err)
	require.Equal(t, "Errands", b["17"])
	require.Equal(t, "Errands", res.Title)
	require.Equal(t, svc.ImagePath("17"), res.ImagePath)

	f, err := os.Open(res.ImagePath)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, 1000, img.Bounds().Dx())
	require.Equal(t, 350, img.Bounds().Dy())

	r, g, bl, a := img.At(552, 24).RGBA()
	require.Equal(t, color.NRGBA{R: 0x00, G: 0x66, B: 0xCC, A: 0xFF}, color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8), A: uint8(a >> 8)})
}

func TestConfigureUnknownList(t *testing.T) {
	svc, b := newTestService(t, StaticSource(payload))

	_, err := svc.Configure(context.Background(), "17", "Chores")
	require.True(t, errors.Is(err, ErrUnknownList))
	require.Empty(t, b)
}

func TestUpdateUnboundAndMissingPayload(t *testing.T) {
	svc, b := newTestService(t, StaticSource(nil))
	b["1"] = "Errands"

	results, err := svc.Update(context.Background(), "1", "2")
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		require.Equal(t, NoListTitle, r.Title)
		require.Empty(t, r.ImagePath)
	}
}

func TestUpdateBoundListMissingFromPayloadStillRenders(t *testing.T) {
	svc, b := newTestService(t, StaticSource(`{not json`))
	b["1"] = "Errands"

	results, err := svc.Update(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, "Errands", results[0].Title)
	require.FileExists(t, results[0].ImagePath)
}

func TestUpdateAllContinuesPastBadWidget(t *testing.T) {
	svc, b := newTestService(t, StaticSource(payload))
	b["a"] = "Errands"
	b["b/../x"] = "Gym"
	b["c"] = "Gym"

	results, err := svc.UpdateAll(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidID))
	require.Len(t, results, 2)
	require.Equal(t, "a", results[0].WidgetID)
	require.Equal(t, "c", results[1].WidgetID)
}

func TestDeleteRemovesBindingAndImage(t *testing.T) {
	svc, b := newTestService(t, StaticSource(payload))
	res, err := svc.Configure(context.Background(), "5", "Gym")
	require.NoError(t, err)
	require.FileExists(t, res.ImagePath)

	require.NoError(t, svc.Delete("5", "6"))
	require.NoFileExists(t, res.ImagePath)
	require.NotContains(t, b, "5")
}

func TestLists(t *testing.T) {
	svc, _ := newTestService(t, StaticSource(payload))
	lists, err := svc.Lists(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Errands", "Gym"}, lists)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tracker.json")

	src := FileSource{Path: path, RootKey: "Tracker"}
	data, err := src.Payload(context.Background())
	require.NoError(t, err)
	require.Nil(t, data)

	require.NoError(t, os.WriteFile(path, []byte(`{"Tracker": `+payload+`}`), 0644))
	data, err = src.Payload(context.Background())
	require.NoError(t, err)
	require.JSONEq(t, payload, string(data))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Payload(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
