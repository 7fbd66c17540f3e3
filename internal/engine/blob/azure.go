package blob

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	azb "github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/anatolykoptev/go_hub/internal/engine"
)

// AzureStore implements Store on Azure Blob Storage.
type AzureStore struct {
	client *azblob.Client
}

// NewAzureStore connects using a storage-account connection string.
func NewAzureStore(connString string) (*AzureStore, error) {
	client, err := azblob.NewClientFromConnectionString(connString, nil)
	if err != nil {
		return nil, fmt.Errorf("azure blob client: %w", err)
	}
	return &AzureStore{client: client}, nil
}

func (s *AzureStore) Exists(ctx context.Context, container, name string) (bool, error) {
	_, err := s.client.ServiceClient().
		NewContainerClient(container).
		NewBlobClient(name).
		GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("head %s/%s: %w", container, name, err)
	}
	return true, nil
}

func (s *AzureStore) Download(ctx context.Context, container, name string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, container, name, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, fmt.Errorf("%s/%s: %w", container, name, ErrNotFound)
		}
		return nil, fmt.Errorf("download %s/%s: %w", container, name, err)
	}
	engine.IncrBlobDownloads()
	return resp.Body, nil
}

func (s *AzureStore) Upload(ctx context.Context, container, name string, body io.Reader, contentType string) error {
	opts := &azblob.UploadStreamOptions{}
	if contentType != "" {
		opts.HTTPHeaders = &azb.HTTPHeaders{BlobContentType: &contentType}
	}
	if _, err := s.client.UploadStream(ctx, container, name, body, opts); err != nil {
		return fmt.Errorf("upload %s/%s: %w", container, name, err)
	}
	engine.IncrBlobUploads()
	return nil
}

func (s *AzureStore) List(ctx context.Context, container, prefix string, limit int) ([]Info, error) {
	opts := &azblob.ListBlobsFlatOptions{}
	if prefix != "" {
		opts.Prefix = &prefix
	}

	var out []Info
	pager := s.client.NewListBlobsFlatPager(container, opts)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", container, err)
		}
		for _, item := range page.Segment.BlobItems {
			if item == nil || item.Name == nil {
				continue
			}
			info := Info{Name: *item.Name}
			if p := item.Properties; p != nil {
				if p.ContentLength != nil {
					info.Size = *p.ContentLength
				}
				if p.ContentType != nil {
					info.ContentType = *p.ContentType
				}
				if p.LastModified != nil {
					info.LastModified = *p.LastModified
				}
			}
			out = append(out, info)
			if limit > 0 && len(out) >= limit {
				return out, nil
			}
		}
	}
	return out, nil
}
