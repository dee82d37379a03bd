package zabbix

import "context"

// GetMediaTypes returns media types matching the names or ids.
func (c *Client) GetMediaTypes(ctx context.Context, namesOrIDs []string) ([]MediaType, error) {
	params := map[string]any{
		"output": []string{"mediatypeid", "name", "type", "status"},
	}
	applyNameOrIDFilter(params, namesOrIDs, "mediatypeids", "name")

	var mediaTypes []MediaType
	if err := c.callResult(ctx, "mediatype.get", params, &mediaTypes); err != nil {
		return nil, wrapCall(err, "failed to get media types")
	}
	return mediaTypes, nil
}

// GetImages returns map images matching the names or ids.
func (c *Client) GetImages(ctx context.Context, namesOrIDs []string) ([]Image, error) {
	params := map[string]any{
		"output": []string{"imageid", "name", "imagetype"},
	}
	applyNameOrIDFilter(params, namesOrIDs, "imageids", "name")

	var images []Image
	if err := c.callResult(ctx, "image.get", params, &images); err != nil {
		return nil, wrapCall(err, "failed to get images")
	}
	return images, nil
}

// GetMaps returns network maps matching the names or ids.
func (c *Client) GetMaps(ctx context.Context, namesOrIDs []string) ([]Map, error) {
	params := map[string]any{
		"output": []string{"sysmapid", "name", "width", "height"},
	}
	applyNameOrIDFilter(params, namesOrIDs, "sysmapids", "name")

	var maps []Map
	if err := c.callResult(ctx, "map.get", params, &maps); err != nil {
		return nil, wrapCall(err, "failed to get maps")
	}
	return maps, nil
}
