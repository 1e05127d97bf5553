package routes

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"

	"service-marketplace-server/config"
	"service-marketplace-server/marketplace"
	"service-marketplace-server/models"
)

// RegisterCategoryRoutes registers public category reads
func RegisterCategoryRoutes(rg *gin.RouterGroup, s *marketplace.MarketplaceStore) {
	store = s

	rg.GET("", listCategories)
	rg.GET("/:id", getCategory)
}

// RegisterAdminCategoryRoutes registers admin-only category management
func RegisterAdminCategoryRoutes(rg *gin.RouterGroup, s *marketplace.MarketplaceStore) {
	store = s

	rg.POST("", createCategory)
	rg.PUT("/:id", updateCategory)
	rg.DELETE("/:id", deleteCategory)
	rg.POST("/:id/image", uploadCategoryImage)
}

func listCategories(c *gin.Context) {
	categories := store.ListCategories()
	c.JSON(http.StatusOK, gin.H{
		"categories":  categories,
		"total_count": len(categories),
	})
}

func getCategory(c *gin.Context) {
	category, err := store.GetCategory(c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

func createCategory(c *gin.Context) {
	var input models.ServiceCategoryCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := store.CreateCategory(input)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	log.Printf("✅ Category %s created", category.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Category created successfully",
		"category": category,
	})
}

func updateCategory(c *gin.Context) {
	var input models.ServiceCategoryUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := store.UpdateCategory(c.Param("id"), input)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Category updated",
		"category": category,
	})
}

func deleteCategory(c *gin.Context) {
	categoryID := c.Param("id")
	if err := store.DeleteCategory(categoryID); err != nil {
		respondStoreError(c, err)
		return
	}

	log.Printf("✅ Category %s deleted", categoryID)

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// validateImageFile validates mimetype and size (<= 5MB)
func validateImageFile(h *multipart.FileHeader) bool {
	if h == nil || h.Size <= 0 || h.Size > 5*1024*1024 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(h.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	default:
		return false
	}
}

// uploadCategoryImage uploads a category illustration to Cloudinary and
// stores the resulting secure URL on the category
func uploadCategoryImage(c *gin.Context) {
	categoryID := c.Param("id")

	if _, err := store.GetCategory(categoryID); err != nil {
		respondStoreError(c, err)
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	if !validateImageFile(header) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image file"})
		return
	}

	cfg := config.AppConfig.Cloudinary
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		log.Printf("❌ Cloudinary environment variables not set")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cloudinary not configured"})
		return
	}

	cloudinaryURL := fmt.Sprintf("cloudinary://%s:%s@%s", cfg.APIKey, cfg.APISecret, cfg.CloudName)
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		log.Printf("❌ Failed to initialize Cloudinary: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cloudinary initialization failed"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read image file"})
		return
	}
	defer file.Close()

	overwrite := true
	unique := true
	up, err := cld.Upload.Upload(context.Background(), file, uploader.UploadParams{
		Folder:         "categories/" + categoryID,
		PublicID:       strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)),
		Overwrite:      &overwrite,
		UniqueFilename: &unique,
		ResourceType:   "image",
	})
	if err != nil {
		log.Printf("❌ Category image upload failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image upload failed"})
		return
	}

	category, err := store.SetCategoryImage(categoryID, up.SecureURL)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	log.Printf("✅ Category image uploaded: %s", up.SecureURL)

	c.JSON(http.StatusOK, gin.H{
		"message":  "Image uploaded successfully",
		"category": category,
	})
}
