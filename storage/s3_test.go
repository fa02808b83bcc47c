package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type recordingPutter struct {
	input   *s3.PutObjectInput
	deleted *s3.DeleteObjectInput
	body    string
	err     error
}

func (p *recordingPutter) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	p.deleted = in
	return &s3.DeleteObjectOutput{}, p.err
}

func (p *recordingPutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	p.input = in
	b, _ := io.ReadAll(in.Body)
	p.body = string(b)
	return &s3.PutObjectOutput{}, p.err
}

func TestUploadReturnsPublicURL(t *testing.T) {
	putter := &recordingPutter{}
	u := NewWithClient(putter, "eu-central-1", "https://proj.supabase.co/storage/v1/object/public/")

	url, err := u.Upload(context.Background(), BucketBlogImages, "Cover.PNG", "image/png", strings.NewReader("png"), 3)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	key := aws.ToString(putter.input.Key)
	if !strings.HasSuffix(key, ".png") {
		t.Errorf("key %q should keep the lowercased extension", key)
	}
	if want := "https://proj.supabase.co/storage/v1/object/public/blog-images/" + key; url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
	if aws.ToString(putter.input.Bucket) != BucketBlogImages || aws.ToString(putter.input.ContentType) != "image/png" {
		t.Errorf("unexpected input %+v", putter.input)
	}
	if putter.body != "png" {
		t.Errorf("body = %q", putter.body)
	}
}

func TestUploadWithoutPublicURLUsesS3Host(t *testing.T) {
	u := NewWithClient(&recordingPutter{}, "us-east-1", "")
	url, err := u.Upload(context.Background(), BucketClientLogos, "logo.svg", "image/svg+xml", strings.NewReader("<svg/>"), 0)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(url, "https://client-logos.s3.us-east-1.amazonaws.com/") {
		t.Errorf("url = %q", url)
	}
}

func TestUploadPropagatesErrors(t *testing.T) {
	u := NewWithClient(&recordingPutter{err: errors.New("boom")}, "", "https://cdn.example")
	if _, err := u.Upload(context.Background(), BucketHeroImages, "a.jpg", "image/jpeg", strings.NewReader("x"), 1); err == nil {
		t.Fatal("expected error")
	}

	var disabled *S3Uploader
	if _, err := disabled.Upload(context.Background(), BucketHeroImages, "a.jpg", "image/jpeg", strings.NewReader("x"), 1); err == nil {
		t.Fatal("nil uploader should refuse uploads")
	}
}

func TestObjectKeyDropsOddExtensions(t *testing.T) {
	now := time.Unix(1700000000, 0)
	for name, wantExt := range map[string]string{
		"photo.jpeg":          ".jpeg",
		"no-extension":        "",
		"weird.p h p":         "",
		"archive.tar.GZ":      ".gz",
		"x.averyverylongext1": "",
	} {
		key := ObjectKey(name, now)
		if !strings.HasPrefix(key, "1700000000-") {
			t.Errorf("%s: key %q missing timestamp", name, key)
		}
		// uuid is 36 chars after the "<unix>-" prefix
		if got := key[len("1700000000-")+36:]; got != wantExt {
			t.Errorf("%s: ext = %q, want %q", name, got, wantExt)
		}
	}
}

func TestRemoveDeletesUploadedObject(t *testing.T) {
	for _, publicURL := range []string{"https://proj.supabase.co/storage/v1/object/public", ""} {
		putter := &recordingPutter{}
		u := NewWithClient(putter, "eu-central-1", publicURL)

		url, err := u.Upload(context.Background(), BucketTeamMembers, "ada.jpg", "image/jpeg", strings.NewReader("jpg"), 3)
		if err != nil {
			t.Fatalf("Upload: %v", err)
		}
		if err := u.Remove(context.Background(), url); err != nil {
			t.Fatalf("Remove(%q): %v", url, err)
		}
		if putter.deleted == nil {
			t.Fatalf("Remove(%q) sent no delete", url)
		}
		if aws.ToString(putter.deleted.Bucket) != BucketTeamMembers || aws.ToString(putter.deleted.Key) != aws.ToString(putter.input.Key) {
			t.Errorf("deleted %s/%s, uploaded %s/%s", aws.ToString(putter.deleted.Bucket), aws.ToString(putter.deleted.Key),
				BucketTeamMembers, aws.ToString(putter.input.Key))
		}
	}
}

func TestRemoveRejectsForeignURLs(t *testing.T) {
	putter := &recordingPutter{}
	u := NewWithClient(putter, "eu-central-1", "https://proj.supabase.co/storage/v1/object/public")
	for _, url := range []string{
		"https://elsewhere.example.com/team-members/a.jpg",
		"https://proj.supabase.co/storage/v1/object/public/team-members",
	} {
		if err := u.Remove(context.Background(), url); err == nil {
			t.Errorf("Remove(%q) should fail", url)
		}
	}
	if putter.deleted != nil {
		t.Error("nothing should have been deleted")
	}
}
