package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"cv-builder/internal/config"
	"cv-builder/internal/services"
)

// Ingests CV review rubric PDFs into the vector store so the analysis stage
// can retrieve scoring guidelines. Run once after changing the documents
// under ./rubric_docs.
func main() {
	log.Println("🚀 Starting rubric ingestion...")

	// Load configuration
	cfg := config.Load()

	// Initialize services
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	rubricStore, err := services.NewQdrantRubricStore(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := rubricStore.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	loader := services.NewDocumentLoader()
	chunker := services.NewTextChunker()

	ctx := context.Background()

	documents := []struct {
		Path string
		Slug string
		Name string
	}{
		{
			Path: "./rubric_docs/cv_content_rubric.pdf",
			Slug: "content_rubric",
			Name: "CV Content Scoring Rubric",
		},
		{
			Path: "./rubric_docs/impact_guidelines.pdf",
			Slug: "impact_guidelines",
			Name: "Achievement and Impact Guidelines",
		},
		{
			Path: "./rubric_docs/skills_checklist.pdf",
			Slug: "skills_checklist",
			Name: "Skills Coverage Checklist",
		},
	}

	successCount := 0
	failCount := 0

	for _, doc := range documents {
		log.Printf("\n📄 Processing: %s", doc.Name)
		log.Printf("   Path: %s", doc.Path)

		data, err := os.ReadFile(doc.Path)
		if err != nil {
			log.Printf("   ⚠️  Could not read file, skipping: %v", err)
			failCount++
			continue
		}

		// Extract text from PDF
		log.Printf("   📖 Extracting text...")
		text, err := loader.LoadFile(filepath.Base(doc.Path), data)
		if err != nil {
			log.Printf("   ❌ Failed to extract text: %v", err)
			failCount++
			continue
		}

		log.Printf("   ✅ Extracted %d characters", len(text))

		// Chunk the text
		log.Printf("   ✂️  Chunking text...")
		chunks := chunker.ChunkText(text, 1000, 200)
		log.Printf("   ✅ Created %d chunks", len(chunks))

		// Drop snippets from a previous run of the same document so
		// re-ingestion never leaves stale chunks behind.
		log.Printf("   🧹 Clearing previous snippets...")
		if err := rubricStore.DeleteSnippets(ctx, doc.Slug); err != nil {
			log.Printf("   ⚠️  Could not clear previous snippets: %v", err)
		}

		// Embed and store each chunk
		log.Printf("   🔄 Embedding and storing chunks...")
		for i, chunk := range chunks {
			embedding, err := geminiService.GenerateEmbedding(ctx, chunk)
			if err != nil {
				log.Printf("   ❌ Failed to generate embedding for chunk %d: %v", i+1, err)
				continue
			}

			if err := rubricStore.UpsertSnippet(ctx, doc.Slug, chunk, embedding); err != nil {
				log.Printf("   ❌ Failed to store chunk %d: %v", i+1, err)
				continue
			}

			if (i+1)%5 == 0 || i == len(chunks)-1 {
				log.Printf("   📊 Progress: %d/%d chunks stored", i+1, len(chunks))
			}
		}

		log.Printf("   ✅ Successfully ingested %s", doc.Name)
		successCount++
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Ingestion Summary:")
	log.Printf("   ✅ Successful: %d documents", successCount)
	log.Printf("   ❌ Failed: %d documents", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some documents failed to ingest. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ All rubric documents ingested successfully!")
}
