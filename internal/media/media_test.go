package media

import (
	"context"
	"testing"

	"github.com/goliatone/go-ninecms/internal/translit"
)

func TestStoragePathTransliteratesComponents(t *testing.T) {
	got := StoragePath("Basic Page", "image", "Γκαλερί", "φωτο 1.jpg", translit.Tables{})
	want := "ninecms/Basic_Page/image/Gkaleri/foto_1.jpg"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestStoragePathSkipsEmptyComponents(t *testing.T) {
	got := StoragePath("Basic Page", "file", "", "report.pdf", translit.Tables{})
	want := "ninecms/Basic_Page/file/report.pdf"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestValidateFileExt(t *testing.T) {
	if err := ValidateFileExt("report.PDF"); err != nil {
		t.Fatalf("expected pdf to pass, got %v", err)
	}
	if err := ValidateFileExt("script.sh"); err != ErrUnsupportedFileExt {
		t.Fatalf("expected ErrUnsupportedFileExt, got %v", err)
	}
}

func TestValidateVideoExt(t *testing.T) {
	if err := ValidateVideoExt("clip.webm"); err != nil {
		t.Fatalf("expected webm to pass, got %v", err)
	}
	if err := ValidateVideoExt("clip.avi"); err != ErrUnsupportedVideoExt {
		t.Fatalf("expected ErrUnsupportedVideoExt, got %v", err)
	}
}

func TestVideoTypeMimeType(t *testing.T) {
	if got := VideoWebM.MimeType(); got != "video/webm" {
		t.Fatalf("unexpected mime type %q", got)
	}
	if got := VideoUnset.MimeType(); got != "" {
		t.Fatalf("expected empty mime type, got %q", got)
	}
}

func TestRepositoryScopesToNode(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.CreateImage(ctx, &Image{NodeID: 1, Path: "a.jpg"}); err != nil {
		t.Fatalf("create image: %v", err)
	}
	if _, err := repo.CreateImage(ctx, &Image{NodeID: 2, Path: "b.jpg"}); err != nil {
		t.Fatalf("create image: %v", err)
	}
	if _, err := repo.CreateVideo(ctx, &Video{NodeID: 1, Path: "a.mp4", Type: VideoMP4}); err != nil {
		t.Fatalf("create video: %v", err)
	}

	images, err := repo.ListImages(ctx, 1)
	if err != nil {
		t.Fatalf("list images: %v", err)
	}
	if len(images) != 1 || images[0].Path != "a.jpg" {
		t.Fatalf("unexpected images %+v", images)
	}
}

func TestDeleteForNodeRemovesAllKinds(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	_, _ = repo.CreateImage(ctx, &Image{NodeID: 1, Path: "a.jpg"})
	_, _ = repo.CreateFile(ctx, &File{NodeID: 1, Path: "a.pdf"})
	_, _ = repo.CreateVideo(ctx, &Video{NodeID: 1, Path: "a.mp4"})
	_, _ = repo.CreateImage(ctx, &Image{NodeID: 2, Path: "keep.jpg"})

	if err := repo.DeleteForNode(ctx, 1); err != nil {
		t.Fatalf("delete for node: %v", err)
	}

	images, _ := repo.ListImages(ctx, 1)
	files, _ := repo.ListFiles(ctx, 1)
	videos, _ := repo.ListVideos(ctx, 1)
	if len(images)+len(files)+len(videos) != 0 {
		t.Fatal("expected node 1 media to be gone")
	}
	kept, _ := repo.ListImages(ctx, 2)
	if len(kept) != 1 {
		t.Fatal("expected node 2 media to survive")
	}
}
