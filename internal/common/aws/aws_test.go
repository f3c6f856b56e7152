package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("ses-123")}, nil
}

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("sns-456")}, nil
}

func TestSESClient_SendEmail(t *testing.T) {
	fake := &fakeSES{}
	c := &SESClient{client: fake}

	id, err := c.SendEmail(context.Background(), Email{
		From: "reports@example.com", To: "asha@example.com", Subject: "Your report", HTMLBody: "<p>hi</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "ses-123", id)
	assert.Equal(t, []string{"asha@example.com"}, fake.input.Destination.ToAddresses)
	assert.Equal(t, "<p>hi</p>", aws.ToString(fake.input.Message.Body.Html.Data))
	assert.Nil(t, fake.input.Message.Body.Text)

	_, err = c.SendEmail(context.Background(), Email{})
	assert.Error(t, err)

	fake.err = errors.New("throttled")
	_, err = c.SendEmail(context.Background(), Email{To: "asha@example.com", TextBody: "x"})
	assert.ErrorContains(t, err, "throttled")
}

func TestSNSClient_SendSMS(t *testing.T) {
	fake := &fakeSNS{}
	c := &SNSClient{client: fake, senderID: "STREAMS"}

	id, err := c.SendSMS(context.Background(), "+911234567890", "Your report is ready")
	require.NoError(t, err)
	assert.Equal(t, "sns-456", id)
	assert.Equal(t, "+911234567890", aws.ToString(fake.input.PhoneNumber))
	assert.Equal(t, "STREAMS", aws.ToString(fake.input.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue))

	_, err = c.SendSMS(context.Background(), "", "x")
	assert.Error(t, err)
}
