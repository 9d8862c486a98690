package s3store

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/riskibarqy/league-insights/internal/domain/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObject struct {
	body         []byte
	lastModified time.Time
}

// fakeAPI pages ListObjectsV2 two keys at a time.
type fakeAPI struct {
	objects map[string]fakeObject
	getErr  error
	now     time.Time
}

func (f *fakeAPI) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(obj.body))}, nil
}

func (f *fakeAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = fakeObject{body: body, lastModified: f.now}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeAPI) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	keys := make([]string, 0, len(f.objects))
	for key := range f.objects {
		if strings.HasPrefix(key, aws.ToString(in.Prefix)) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	start := 0
	if token := aws.ToString(in.ContinuationToken); token != "" {
		start = sort.SearchStrings(keys, token)
	}
	end := min(start+2, len(keys))

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, key := range keys[start:end] {
		obj := f.objects[key]
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(key),
			Size:         aws.Int64(int64(len(obj.body))),
			LastModified: aws.Time(obj.lastModified),
		})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(keys[end])
	}
	return out, nil
}

func TestStore_GetPutList(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 18, 2, 39, 0, 0, time.UTC)
	api := &fakeAPI{objects: map[string]fakeObject{}, now: now}
	store := NewWithAPI(api, "football-snapshots")
	ctx := context.Background()

	_, err := store.Get(ctx, "PL_matches_20261018.json")
	require.ErrorIs(t, err, snapshot.ErrBlobNotFound)

	for _, key := range []string{"PL_matches_20260920.json", "PL_matches_20260927.json", "PL_matches_20261004.json", "PD_matches_20261004.json"} {
		require.NoError(t, store.Put(ctx, key, []byte(`{"matches":[]}`)))
	}

	body, err := store.Get(ctx, "PL_matches_20261004.json")
	require.NoError(t, err)
	assert.Equal(t, `{"matches":[]}`, string(body))

	objects, err := store.List(ctx, "PL_matches_")
	require.NoError(t, err)
	require.Len(t, objects, 3, "all pages must be collected")
	assert.Equal(t, "PL_matches_20261004.json", objects[2].Key)
	assert.Equal(t, now, objects[2].LastModified)
	assert.Equal(t, int64(len(`{"matches":[]}`)), objects[0].Size)
}

func TestStore_GenericNotFoundCode(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		objects: map[string]fakeObject{},
		getErr:  &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"},
	}
	_, err := NewWithAPI(api, "b").Get(context.Background(), "PL_matches_20261018.json")
	require.ErrorIs(t, err, snapshot.ErrBlobNotFound)
}

func TestStore_OtherErrorsAreWrapped(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		objects: map[string]fakeObject{},
		getErr:  &smithy.GenericAPIError{Code: "AccessDenied", Message: "Access Denied"},
	}
	_, err := NewWithAPI(api, "b").Get(context.Background(), "PL_matches_20261018.json")
	require.Error(t, err)
	assert.NotErrorIs(t, err, snapshot.ErrBlobNotFound)
	assert.Contains(t, err.Error(), "key=PL_matches_20261018.json")
}
