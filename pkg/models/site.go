package models

// SiteConfig is the persisted site configuration.
type SiteConfig struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Theme       string `json:"theme" validate:"required"`
}

// DefaultSiteConfig is used whenever the configuration file is missing or unreadable.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		Title:       "NewsPage",
		Description: "A dynamic news page",
		Theme:       "tech",
	}
}

// PublicSiteConfig is the shape written to config.json in the build output.
type PublicSiteConfig struct {
	Title       string `json:"title"`
	Theme       string `json:"theme"`
	Description string `json:"description"`
}

// UploadResult is returned after storing an uploaded asset.
type UploadResult struct {
	URL string `json:"url"`
}

// DeleteResult reports the outcome of deleting an article.
type DeleteResult struct {
	OK            bool `json:"ok"`
	DeletedImages int  `json:"deletedImages"`
}
