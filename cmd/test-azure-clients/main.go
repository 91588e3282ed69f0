package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"

	"github.com/burakkho/thrustr-backend/internal/azure"
)

func main() {
	// Initialize logger
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Get credentials from environment
	openaiEndpoint := os.Getenv("AZURE_OPENAI_ENDPOINT")
	openaiKey := os.Getenv("AZURE_OPENAI_KEY")
	openaiDeployment := os.Getenv("AZURE_OPENAI_DEPLOYMENT")

	storageAccountName := os.Getenv("AZURE_STORAGE_ACCOUNT_NAME")
	storageAccountKey := os.Getenv("AZURE_STORAGE_ACCOUNT_KEY")

	// Validate required environment variables
	if openaiEndpoint == "" || openaiKey == "" || openaiDeployment == "" {
		logger.Fatal("Missing Azure OpenAI credentials. Set AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_KEY, and AZURE_OPENAI_DEPLOYMENT")
	}

	if storageAccountName == "" || storageAccountKey == "" {
		logger.Fatal("Missing Azure Storage credentials. Set AZURE_STORAGE_ACCOUNT_NAME and AZURE_STORAGE_ACCOUNT_KEY")
	}

	ctx := context.Background()

	// Test 1: Azure OpenAI Client
	logger.Info("=== Testing Azure OpenAI Client ===")
	if err := testOpenAIClient(ctx, openaiEndpoint, openaiKey, openaiDeployment, logger); err != nil {
		logger.Error("OpenAI client test failed", zap.Error(err))
	} else {
		logger.Info("✅ OpenAI client test passed")
	}

	// Test 2: Azure Blob Storage Client
	logger.Info("\n=== Testing Azure Blob Storage Client ===")
	if err := testBlobStorageClient(ctx, storageAccountName, storageAccountKey, logger); err != nil {
		logger.Error("Blob storage client test failed", zap.Error(err))
	} else {
		logger.Info("✅ Blob storage client test passed")
	}

	logger.Info("\n=== All tests completed ===")
}

func testOpenAIClient(ctx context.Context, endpoint, apiKey, deployment string, logger *zap.Logger) error {
	client, err := azure.NewOpenAIClient(endpoint, apiKey, deployment, logger)
	if err != nil {
		return fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	// Test chat completion with a narrative-style prompt
	messages := []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String("You are a supportive fitness coach summarizing health reports."),
				},
			},
		},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String("Recovery score: 82/100 (good). Say one encouraging sentence about this."),
				},
			},
		},
	}

	response, err := client.Complete(ctx, messages)
	if err != nil {
		return fmt.Errorf("chat completion failed: %w", err)
	}

	logger.Info("OpenAI response received",
		zap.String("response", response),
		zap.Int("response_length", len(response)),
	)

	return nil
}

func testBlobStorageClient(ctx context.Context, accountName, accountKey string, logger *zap.Logger) error {
	// Test PDF operations with the health-reports container
	client, err := azure.NewBlobStorageClient(accountName, accountKey, "health-reports", logger)
	if err != nil {
		return fmt.Errorf("failed to create Blob Storage client: %w", err)
	}

	testPDFData := []byte("%PDF-1.4\nTest PDF content")
	testPDFFilename := fmt.Sprintf("test-report-%d.pdf", time.Now().Unix())

	logger.Info("Testing PDF upload", zap.String("filename", testPDFFilename))

	pdfBlobName, err := client.UploadPDF(ctx, testPDFFilename, testPDFData)
	if err != nil {
		return fmt.Errorf("PDF upload failed: %w", err)
	}

	logger.Info("PDF uploaded successfully", zap.String("blob_name", pdfBlobName))

	// Test PDF download
	logger.Info("Testing PDF download", zap.String("blob_name", pdfBlobName))

	downloadedPDF, err := client.DownloadPDF(ctx, pdfBlobName)
	if err != nil {
		return fmt.Errorf("PDF download failed: %w", err)
	}

	if string(downloadedPDF) != string(testPDFData) {
		return fmt.Errorf("downloaded PDF doesn't match uploaded PDF")
	}

	logger.Info("PDF downloaded and verified successfully",
		zap.Int("size_bytes", len(downloadedPDF)),
	)

	return nil
}
