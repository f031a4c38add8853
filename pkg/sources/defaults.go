package sources

import "github.com/samvad-hq/samvad-news-aggregator/internal/domain"

// DefaultSources returns the built-in source set used when no sources file is configured.
func DefaultSources() []domain.Source {
	return []domain.Source{
		{
			ID:            "geo_tv",
			Kind:          domain.KindMarkup,
			Origin:        "https://www.geo.tv/",
			Name:          "Geo TV",
			FallbackImage: "https://upload.wikimedia.org/wikipedia/commons/thumb/e/e0/Geo_TV_logo.svg/1200px-Geo_TV_logo.svg.png",
			Selectors: &domain.Selectors{
				ArticleContainer: "div.m_c_left ul li, div.m_c_right ul li article",
				Title:            ".heading h1, .heading h2",
				Summary:          ".m_except p",
				Image:            ".m_pic img",
			},
		},
		{
			ID:            "bbc_news",
			Kind:          domain.KindFeed,
			Origin:        "http://feeds.bbci.co.uk/news/rss.xml",
			Name:          "BBC News",
			FallbackImage: "https://upload.wikimedia.org/wikipedia/commons/thumb/6/62/BBC_News_2019.svg/1200px-BBC_News_2019.svg.png",
		},
		{
			ID:            "cnn",
			Kind:          domain.KindFeed,
			Origin:        "http://rss.cnn.com/rss/edition.rss",
			Name:          "CNN",
			FallbackImage: "https://upload.wikimedia.org/wikipedia/commons/thumb/6/66/CNN_International_logo.svg/1200px-CNN_International_logo.svg.png",
		},
		{
			ID:            "pakistan_point",
			Kind:          domain.KindMarkup,
			Origin:        "https://www.pakistanpoint.com/en/",
			Name:          "Pakistan Point",
			FallbackImage: "https://upload.wikimedia.org/wikipedia/commons/thumb/5/52/Pakistan_Point_Logo.png/800px-Pakistan_Point_Logo.png",
			Selectors: &domain.Selectors{
				ArticleContainer: `div[class*="lfw1_"], div[class*="lfw2_"], div[class*="bwn_list"], div[class*="bwn_rlist"]`,
				Title:            "h3, p",
				Image:            "img",
			},
		},
		{
			ID:            "trt_world",
			Kind:          domain.KindMarkup,
			Origin:        "https://www.trtworld.com/news",
			Name:          "TRT World",
			FallbackImage: "https://upload.wikimedia.org/wikipedia/commons/thumb/d/d4/TRT_World_Logo.svg/1200px-TRT_World_Logo.svg.png",
			Selectors: &domain.Selectors{
				ArticleContainer: `div[data-testid="single-card"]`,
				Title:            `div[data-testid="headline:title"] span`,
				Summary:          `div[data-testid="headline:description"] span`,
				Image:            `div[data-testid="media:desktop"] img, div[data-testid="media:mobile"] img`,
				Link:             `a[href*="/article/"]`,
			},
		},
		{
			ID:            "middle_east_eye",
			Kind:          domain.KindFeed,
			Origin:        "https://middleeasteye.net/rss",
			Name:          "Middle East Eye",
			FallbackImage: "https://upload.wikimedia.org/wikipedia/commons/9/9e/Middle_East_Eye_logo.png",
		},
	}
}

// DefaultRegistry builds a registry from DefaultSources.
func DefaultRegistry() (*Registry, error) {
	return NewRegistry(DefaultSources())
}

// Load returns the registry stored at path, or the built-in registry when path is empty.
func Load(path string) (*Registry, error) {
	if path == "" {
		return DefaultRegistry()
	}
	return LoadRegistry(path)
}
