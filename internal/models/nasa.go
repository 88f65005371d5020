package models

// ImageCollection is the response of the NASA image library search.
type ImageCollection struct {
	Collection struct {
		Items []ImageItem `json:"items"`
	} `json:"collection"`
}

// Items returns the collection items, nil-safe.
func (c *ImageCollection) Items() []ImageItem {
	if c == nil {
		return nil
	}
	return c.Collection.Items
}

type ImageItem struct {
	Links []ImageLink `json:"links"`
	Data  []ImageData `json:"data"`
}

type ImageLink struct {
	Href string `json:"href"`
}

type ImageData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ApodItem is a single Astronomy Picture of the Day entry.
type ApodItem struct {
	URL         string `json:"url"`
	HDURL       string `json:"hdurl"`
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
}
