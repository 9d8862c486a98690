package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name BlobStore --dir ../domain/snapshot --output domain/snapshot --outpkg snapshotmock --filename blob_store_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/ingestion --output domain/ingestion --outpkg ingestionmock --filename repository_mock.go
