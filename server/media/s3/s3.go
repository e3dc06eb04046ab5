// Package s3 implements media interface for attachments stored in an Amazon S3 bucket.
package s3

import (
	"encoding/json"
	"errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/echowaves/chat/server/logs"
	"github.com/echowaves/chat/server/media"
	"github.com/echowaves/chat/server/store"
	"github.com/echowaves/chat/server/store/types"
)

const (
	handlerName   = "s3"
	defaultPrefix = "attachments"
)

type awsconfig struct {
	AccessKeyId     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	Region          string `json:"region"`
	DisableSSL      bool   `json:"disable_ssl"`
	ForcePathStyle  bool   `json:"force_path_style"`
	Endpoint        string `json:"endpoint"`
	BucketName      string `json:"bucket"`
	// Key prefix of the attachments in the bucket.
	Prefix string `json:"prefix"`
}

type awshandler struct {
	svc  s3iface.S3API
	conf awsconfig
}

// Init initializes the media handler.
func (ah *awshandler) Init(jsconf string) error {
	var err error
	if err = json.Unmarshal([]byte(jsconf), &ah.conf); err != nil {
		return errors.New("failed to parse config: " + err.Error())
	}

	if ah.conf.AccessKeyId == "" {
		return errors.New("missing Access Key ID")
	}
	if ah.conf.SecretAccessKey == "" {
		return errors.New("missing Secret Access Key")
	}
	if ah.conf.Region == "" {
		return errors.New("missing Region")
	}
	if ah.conf.BucketName == "" {
		return errors.New("missing Bucket")
	}
	if ah.conf.Prefix == "" {
		ah.conf.Prefix = defaultPrefix
	}

	var sess *session.Session
	if sess, err = session.NewSession(&aws.Config{
		Region:           aws.String(ah.conf.Region),
		DisableSSL:       aws.Bool(ah.conf.DisableSSL),
		S3ForcePathStyle: aws.Bool(ah.conf.ForcePathStyle),
		Endpoint:         aws.String(ah.conf.Endpoint),
		Credentials:      credentials.NewStaticCredentials(ah.conf.AccessKeyId, ah.conf.SecretAccessKey, ""),
	}); err != nil {
		return err
	}

	// Create S3 service client
	ah.svc = s3.New(sess)

	// The bucket must exist: attachments are uploaded elsewhere.
	_, err = ah.svc.HeadBucket(&s3.HeadBucketInput{Bucket: aws.String(ah.conf.BucketName)})
	return err
}

// RestrictAccess sets the 'private' canned ACL on every object stored under the message's prefix.
func (ah *awshandler) RestrictAccess(msgId types.Uid) error {
	prefix := media.AttachmentPrefix(ah.conf.Prefix, msgId)
	if prefix == "" {
		return types.ErrMalformed
	}

	var keys []*string
	err := ah.svc.ListObjectsV2Pages(&s3.ListObjectsV2Input{
		Bucket: aws.String(ah.conf.BucketName),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			keys = append(keys, obj.Key)
		}
		return true
	})
	if err != nil {
		return err
	}

	for _, key := range keys {
		if _, err = ah.svc.PutObjectAcl(&s3.PutObjectAclInput{
			Bucket: aws.String(ah.conf.BucketName),
			Key:    key,
			ACL:    aws.String(s3.ObjectCannedACLPrivate),
		}); err != nil {
			return err
		}
	}

	if len(keys) > 0 {
		logs.Info.Println("s3: restricted access to", len(keys), "objects under", prefix)
	}
	return nil
}

func init() {
	store.RegisterMediaHandler(handlerName, &awshandler{})
}
