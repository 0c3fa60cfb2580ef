// Package pictureBed 游记封面图片存储，前端用预签名 URL 直传 S3 兼容的对象存储
package pictureBed

import (
	"context"
	"sync"

	"travel-journal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

type PictureBed struct {
	Endpoint     string
	BaseURL      string // 访问地址，为空时用 Endpoint
	Bucket       string
	Region       string
	Prefix       string // 对象 key 前缀，例如 covers/
	UsePathStyle bool

	accessKey string
	secretKey string

	mu       sync.Mutex
	s3Client *s3.Client
}

func New(c config.S3) *PictureBed {
	return &PictureBed{
		Endpoint:     c.Endpoint,
		BaseURL:      c.BaseURL,
		Bucket:       c.Bucket,
		Region:       c.Region,
		Prefix:       c.Prefix,
		UsePathStyle: c.UsePathStyle,
		accessKey:    c.AccessKey,
		secretKey:    c.SecretAccessKey,
	}
}

// Configured bucket 和密钥都有才算配置了
func (pb *PictureBed) Configured() bool {
	return pb != nil && pb.Bucket != "" && pb.accessKey != "" && pb.secretKey != ""
}

// InitS3 懒加载 S3 客户端
func (pb *PictureBed) InitS3(ctx context.Context) error {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	if pb.s3Client != nil {
		return nil
	}

	region := pb.Region
	if region == "" {
		region = "us-east-1"
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(pb.accessKey, pb.secretKey, "")),
	)
	if err != nil {
		return errors.Wrap(err, "load aws config")
	}

	pb.s3Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if pb.Endpoint != "" {
			o.BaseEndpoint = aws.String(pb.Endpoint)
		}
		o.UsePathStyle = pb.UsePathStyle
	})
	return nil
}

func (pb *PictureBed) client(ctx context.Context) (*s3.Client, error) {
	if err := pb.InitS3(ctx); err != nil {
		return nil, err
	}
	return pb.s3Client, nil
}
