package service

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/client"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/pt"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/drawing"
)

const painJSON = `[{"penColor":"red","dotSize":0,"minWidth":0.5,"maxWidth":2.5,"velocityFilterWeight":0.7,"compositeOperation":"source-over","points":[{"x":20,"y":30,"time":1},{"x":60,"y":30,"time":2}]}]`

func TestGetHistoryDefaultsToEmpty(t *testing.T) {
	env := newTestEnv(t)
	c := env.newClient(t)

	h, err := env.ptSvc.GetHistory(context.Background(), c.ID, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, "[]", h.PainAreas)
	assert.Nil(t, h.BestPain)

	_, err = env.ptSvc.GetHistory(context.Background(), uuid.New(), RequestMeta{})
	assert.ErrorIs(t, err, client.ErrClientNotFound)
}

func TestUpdateHistoryCanonicalizesPainAreas(t *testing.T) {
	env := newTestEnv(t)
	c := env.newClient(t)

	legacy := `[[{"x":20,"y":30,"time":1,"color":"red"},{"x":60,"y":30,"time":2,"color":"red"}]]`
	h, err := env.ptSvc.UpdateHistory(context.Background(), c.ID, &pt.UpdateHistoryCommand{
		HasPT:       true,
		PainAreas:   legacy,
		BestPain:    intp(2),
		WorstPain:   intp(8),
		CurrentPain: intp(5),
		MakesWorse:  "stairs",
	}, RequestMeta{})
	require.NoError(t, err)

	d, err := drawing.Decode(h.PainAreas)
	require.NoError(t, err)
	require.Len(t, d, 1)
	assert.Equal(t, "red", d[0].PenColor)
	assert.Equal(t, drawing.CompositeSourceOver, d[0].CompositeOperation)
	assert.True(t, strings.HasPrefix(h.PainAreas, `[{"penColor"`))

	stored, err := env.ptSvc.GetHistory(context.Background(), c.ID, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, h.PainAreas, stored.PainAreas)
	assert.Equal(t, 5, *stored.CurrentPain)
	assert.True(t, stored.HasPT)
}

func TestUpdateHistoryRejects(t *testing.T) {
	env := newTestEnv(t)
	c := env.newClient(t)
	ctx := context.Background()

	_, err := env.ptSvc.UpdateHistory(ctx, c.ID, &pt.UpdateHistoryCommand{PainAreas: `{"not":"a list"}`}, RequestMeta{})
	assert.ErrorIs(t, err, pt.ErrInvalidPainAreas)

	var verr *ValidationError
	_, err = env.ptSvc.UpdateHistory(ctx, c.ID, &pt.UpdateHistoryCommand{CurrentPain: intp(11)}, RequestMeta{})
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 1)

	_, err = env.ptSvc.UpdateHistory(ctx, c.ID, &pt.UpdateHistoryCommand{BestPain: intp(7), WorstPain: intp(3)}, RequestMeta{})
	require.ErrorAs(t, err, &verr)

	_, err = env.ptSvc.UpdateHistory(ctx, c.ID, &pt.UpdateHistoryCommand{MakesBetter: strings.Repeat("x", 1025)}, RequestMeta{})
	require.ErrorAs(t, err, &verr)

	_, err = env.ptSvc.UpdateHistory(ctx, uuid.New(), &pt.UpdateHistoryCommand{}, RequestMeta{})
	assert.ErrorIs(t, err, client.ErrClientNotFound)
}

func TestPainAreasImage(t *testing.T) {
	env := newTestEnv(t)
	c := env.newClient(t)
	ctx := context.Background()

	_, err := env.ptSvc.UpdateHistory(ctx, c.ID, &pt.UpdateHistoryCommand{PainAreas: painJSON}, RequestMeta{})
	require.NoError(t, err)

	data, err := env.ptSvc.PainAreasImage(ctx, c.ID)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy())

	_, _, _, a := img.At(40, 30).RGBA()
	assert.NotZero(t, a)
	_, _, _, a = img.At(40, 100).RGBA()
	assert.Zero(t, a)
}
