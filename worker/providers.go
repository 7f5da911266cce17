package worker

import (
	"hdoc/element"
	"hdoc/factory"
	"hdoc/markup"
)

// ImageProvider supplies images before any other resolution is attempted.
// Returning nil image without error passes resolution further down.
type ImageProvider interface {
	Image(src string, attrs markup.Attrs, chain *markup.Chain, doc Listener) (*element.Image, error)
}

// ImageProviderFunc adapts function to ImageProvider.
type ImageProviderFunc func(src string, attrs markup.Attrs, chain *markup.Chain, doc Listener) (*element.Image, error)

func (f ImageProviderFunc) Image(src string, attrs markup.Attrs, chain *markup.Chain, doc Listener) (*element.Image, error) {
	return f(src, attrs, chain, doc)
}

// ImageProcessor may take over placement of resolved image. When it
// reports true the image is considered handled and is not inserted.
type ImageProcessor interface {
	Process(img *element.Image, attrs markup.Attrs, chain *markup.Chain, doc Listener) bool
}

// ImageProcessorFunc adapts function to ImageProcessor.
type ImageProcessorFunc func(img *element.Image, attrs markup.Attrs, chain *markup.Chain, doc Listener) bool

func (f ImageProcessorFunc) Process(img *element.Image, attrs markup.Attrs, chain *markup.Chain, doc Listener) bool {
	return f(img, attrs, chain, doc)
}

// LinkProcessor intercepts hyperlinks. It receives paragraph holding link
// content while the anchor scope is still on the chain. Returning true
// suppresses default href assignment.
type LinkProcessor interface {
	Process(p *element.Paragraph, chain *markup.Chain) bool
}

// LinkProcessorFunc adapts function to LinkProcessor.
type LinkProcessorFunc func(p *element.Paragraph, chain *markup.Chain) bool

func (f LinkProcessorFunc) Process(p *element.Paragraph, chain *markup.Chain) bool {
	return f(p, chain)
}

// ImageStore holds preloaded images by src. Stored images are copied on use.
type ImageStore map[string]*element.Image

// Providers are optional collaborators of the worker.
type Providers struct {
	ImageProvider  ImageProvider
	ImageProcessor ImageProcessor
	LinkProcessor  LinkProcessor
	Images         ImageStore
	// BaseURL is prefix (or base) for relative image references, used when
	// worker creates its own image resolver.
	BaseURL string
	Fonts   factory.FontProvider
}
