// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package database

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/vodarchive/internal/models"
)

func videoIDs(p *models.Page[models.Video]) []string {
	ids := make([]string, len(p.Items))
	for i, v := range p.Items {
		ids[i] = v.TwitchID
	}
	return ids
}

func TestListVideos(t *testing.T) {
	db := setupTestDB(t, 0)
	seedArchive(t, db)
	ctx := context.Background()

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter models.VideoFilter
		want   []string
	}{
		{"all newest first", models.VideoFilter{}, []string{"v3", "v1", "v2"}},
		{"search is case-insensitive", models.VideoFilter{Search: "PIANO"}, []string{"v2"}},
		{"search treats wildcards literally", models.VideoFilter{Search: "100%_"}, []string{"v3"}},
		{"percent is literal", models.VideoFilter{Search: "%"}, []string{"v3"}},
		{"category matches one tag", models.VideoFilter{Category: "Music"}, []string{"v1", "v2"}},
		{"category is exact", models.VideoFilter{Category: "Mus"}, []string{}},
		{"kinds", models.VideoFilter{Kinds: []models.VideoKind{models.VideoKindUpload, models.VideoKindHighlight}}, []string{"v3", "v2"}},
		{"date window", models.VideoFilter{From: &from, To: &to}, []string{"v1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := db.ListVideos(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListVideos() error = %v", err)
			}
			if got := videoIDs(page); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ListVideos() = %v, want %v", got, tt.want)
			}
			if page.Total != int64(len(tt.want)) {
				t.Errorf("Total = %d, want %d", page.Total, len(tt.want))
			}
		})
	}
}

func TestListVideos_Pagination(t *testing.T) {
	db := setupTestDB(t, 0)
	seedArchive(t, db)

	page, err := db.ListVideos(context.Background(), models.VideoFilter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("ListVideos() error = %v", err)
	}
	if got, want := videoIDs(page), []string{"v1", "v2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ListVideos() = %v, want %v", got, want)
	}
	if page.Total != 3 || page.HasMore() {
		t.Errorf("Total = %d HasMore = %v, want 3 false", page.Total, page.HasMore())
	}
}

func TestListClips(t *testing.T) {
	db := setupTestDB(t, 0)
	seedArchive(t, db)
	ctx := context.Background()

	v1, _ := db.GetVideoByTwitchID(ctx, "v1")
	page, err := db.ListClips(ctx, models.ClipFilter{VideoID: &v1.ID})
	if err != nil {
		t.Fatalf("ListClips() error = %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].TwitchID != "c1" {
		t.Errorf("ListClips(video v1) = %+v, want [c1]", page.Items)
	}

	page, err = db.ListClips(ctx, models.ClipFilter{Category: "Art"})
	if err != nil {
		t.Fatalf("ListClips() error = %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].TwitchID != "c2" {
		t.Errorf("ListClips(category Art) = %+v, want [c2]", page.Items)
	}

	c3, _ := db.GetClipByTwitchID(ctx, "c3")
	if _, err := db.SetClipFavorite(ctx, c3.ID, true); err != nil {
		t.Fatalf("SetClipFavorite() error = %v", err)
	}
	page, err = db.ListClips(ctx, models.ClipFilter{FavoriteOnly: true})
	if err != nil {
		t.Fatalf("ListClips() error = %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].TwitchID != "c3" {
		t.Errorf("ListClips(favorites) = %+v, want [c3]", page.Items)
	}
}

func TestListClips_FavoriteRequiresColumn(t *testing.T) {
	db := setupTestDB(t, 2)

	if _, err := db.ListClips(context.Background(), models.ClipFilter{FavoriteOnly: true}); !errors.Is(err, ErrUnsupportedColumn) {
		t.Errorf("ListClips(favorites) error = %v, want ErrUnsupportedColumn", err)
	}
	if _, err := db.SetClipFavorite(context.Background(), 1, true); !errors.Is(err, ErrUnsupportedColumn) {
		t.Errorf("SetClipFavorite() error = %v, want ErrUnsupportedColumn", err)
	}
}

func TestListCategories(t *testing.T) {
	db := setupTestDB(t, 0)
	seedArchive(t, db)

	got, err := db.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if want := []string{"Art", "Chess", "Music"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ListCategories() = %v, want %v", got, want)
	}
}
