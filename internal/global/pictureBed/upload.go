package pictureBed

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// UploadObject 服务端直接上传，返回访问地址；大文件由 manager 自动分片
func (pb *PictureBed) UploadObject(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	client, err := pb.client(ctx)
	if err != nil {
		return "", fmt.Errorf("初始化 S3 客户端失败: %w", err)
	}
	if pb.Bucket == "" {
		return "", fmt.Errorf("S3 bucket 未配置")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = manager.NewUploader(client).Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(pb.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("上传 %s 失败: %w", key, err)
	}
	return pb.PublicURL(key), nil
}

// ExportKey 导出文件的 key：前缀/exports/<tripID>-<纳秒时间戳>.xlsx
func (pb *PictureBed) ExportKey(tripID string, now time.Time) string {
	key := path.Join(strings.Trim(pb.Prefix, "/"), "exports", fmt.Sprintf("%s-%d.xlsx", tripID, now.UnixNano()))
	return strings.TrimLeft(key, "/")
}
