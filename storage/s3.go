package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rpupo63/consultancy-site-backend/config"
	"github.com/rs/zerolog/log"
)

// Buckets, one per kind of uploaded media.
const (
	BucketHeroImages     = "hero-images"
	BucketClientLogos    = "client-logos"
	BucketTeamMembers    = "team-members"
	BucketBlogImages     = "blog-images"
	BucketAboutImages    = "about-images"
	BucketServiceImages  = "service-images"
	BucketLocationImages = "location-images"
	BucketProjectImages  = "project-images"
)

type objectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Uploader writes public media to an S3 compatible store. Supabase Storage
// is reached through its S3 endpoint with path style addressing.
type S3Uploader struct {
	client    objectStore
	region    string
	publicURL string
}

// New builds the uploader from STORAGE_* settings. When SUPABASE_URL is set
// the endpoint and public URL default to that project's storage.
func New(ctx context.Context, cfg map[string]string) (*S3Uploader, error) {
	supabaseURL := strings.TrimRight(config.GetString(cfg, "SUPABASE_URL", ""), "/")
	endpoint := config.GetString(cfg, "STORAGE_ENDPOINT", "")
	publicURL := config.GetString(cfg, "STORAGE_PUBLIC_URL", "")
	if supabaseURL != "" {
		if endpoint == "" {
			endpoint = supabaseURL + "/storage/v1/s3"
		}
		if publicURL == "" {
			publicURL = supabaseURL + "/storage/v1/object/public"
		}
	}
	region := config.GetString(cfg, "STORAGE_REGION", config.GetString(cfg, "AWS_REGION", "eu-central-1"))

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	accessKey := config.GetString(cfg, "STORAGE_ACCESS_KEY_ID", "")
	secretKey := config.GetString(cfg, "STORAGE_SECRET_ACCESS_KEY", "")
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS default config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	log.Info().Str("endpoint", endpoint).Str("region", region).Msg("Object storage configured")
	return &S3Uploader{client: client, region: region, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// NewWithClient wraps an existing client, mostly for tests.
func NewWithClient(client objectStore, region, publicURL string) *S3Uploader {
	return &S3Uploader{client: client, region: region, publicURL: strings.TrimRight(publicURL, "/")}
}

func (u *S3Uploader) Enabled() bool { return u != nil && u.client != nil }

// Upload stores body under a fresh key in bucket and returns its public URL.
func (u *S3Uploader) Upload(ctx context.Context, bucket, filename, contentType string, body io.Reader, size int64) (string, error) {
	if !u.Enabled() {
		return "", fmt.Errorf("object storage not configured")
	}
	key := ObjectKey(filename, time.Now())
	input := &s3.PutObjectInput{
		Bucket:       aws.String(bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000"),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := u.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s to %s: %w", filename, bucket, err)
	}
	return u.PublicURL(bucket, key), nil
}

// Remove deletes the object behind a URL that Upload returned.
func (u *S3Uploader) Remove(ctx context.Context, url string) error {
	if !u.Enabled() {
		return fmt.Errorf("object storage not configured")
	}
	bucket, key, ok := u.objectOf(url)
	if !ok {
		return fmt.Errorf("%s is not an object of this store", url)
	}
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to remove %s from %s: %w", key, bucket, err)
	}
	return nil
}

// objectOf splits a URL built by PublicURL back into bucket and key
func (u *S3Uploader) objectOf(url string) (bucket, key string, ok bool) {
	if u.publicURL != "" {
		rest, found := strings.CutPrefix(url, u.publicURL+"/")
		if !found {
			return "", "", false
		}
		bucket, key, ok = strings.Cut(rest, "/")
		return bucket, key, ok && bucket != "" && key != ""
	}
	rest, found := strings.CutPrefix(url, "https://")
	if !found {
		return "", "", false
	}
	host, key, found := strings.Cut(rest, "/")
	bucket, ok = strings.CutSuffix(host, ".s3."+u.region+".amazonaws.com")
	return bucket, key, found && ok && bucket != "" && key != ""
}

// PublicURL is where a stored object can be fetched without credentials.
func (u *S3Uploader) PublicURL(bucket, key string) string {
	if u.publicURL == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, u.region, key)
	}
	return fmt.Sprintf("%s/%s/%s", u.publicURL, bucket, key)
}

// ObjectKey names an upload "<unix>-<uuid><ext>", keeping the client's
// extension only when it is short and alphanumeric.
func ObjectKey(filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	if !cleanExt(ext) {
		ext = ""
	}
	return fmt.Sprintf("%d-%s%s", now.Unix(), uuid.NewString(), ext)
}

func cleanExt(ext string) bool {
	if len(ext) < 2 || len(ext) > 10 {
		return false
	}
	for _, r := range ext[1:] {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
