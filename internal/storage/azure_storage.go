package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

type azureStorage struct {
	client    *azblob.Client
	container string
}

// NewAzureStorage stores uploads as block blobs in container
func NewAzureStorage(accountName, accountKey, container string) (UploadStore, error) {
	if container == "" {
		return nil, fmt.Errorf("container name is required")
	}

	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid storage credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net/", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("creating blob client: %w", err)
	}

	return &azureStorage{client: client, container: container}, nil
}

func (s *azureStorage) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	name := objectName(filename)
	if _, err := s.client.UploadStream(ctx, s.container, name, r, nil); err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	return name, nil
}

func (s *azureStorage) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, ref, nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	return resp.Body, nil
}
