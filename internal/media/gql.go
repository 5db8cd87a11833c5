package media

// GraphQL documents against the platform's Admin API. The node fragments are
// repeated per document because the API rejects fragments on the File union
// that it does not recognize for the given root field.

const qFilesList = `
  query FilesList($first: Int!, $after: String) {
    files(first: $first, after: $after) {
      pageInfo { hasNextPage endCursor }
      nodes {
        __typename
        ... on MediaImage {
          id
          alt
          preview { image { url } }
          image { url width height }
          originalSource { url }
        }
        ... on GenericFile {
          id
          alt
          url
          preview { image { url } }
        }
        ... on Video {
          id
          alt
          preview { image { url } }
          originalSource { url }
        }
      }
    }
  }
`

const qFilesByIDs = `
  query FilesByIds($ids: [ID!]!) {
    nodes(ids: $ids) {
      __typename
      id
      ... on MediaImage {
        alt
        preview { image { url } }
        image { url width height }
        originalSource { url }
      }
      ... on GenericFile {
        alt
        url
        preview { image { url } }
      }
      ... on Video {
        alt
        preview { image { url } }
        originalSource { url }
      }
    }
  }
`

const mStagedUploadsCreate = `
  mutation StagedUploads($inputs: [StagedUploadInput!]!) {
    stagedUploadsCreate(input: $inputs) {
      stagedTargets {
        resourceUrl
        url
        parameters { name value }
      }
      userErrors { field message }
    }
  }
`

const mFileCreate = `
  mutation FileCreate($files: [FileCreateInput!]!) {
    fileCreate(files: $files) {
      files {
        __typename
        id
        ... on MediaImage {
          alt
          preview { image { url } }
          image { url width height }
          originalSource { url }
        }
        ... on GenericFile {
          alt
          url
          preview { image { url } }
        }
        ... on Video {
          alt
          preview { image { url } }
          originalSource { url }
        }
      }
      userErrors { field message }
    }
  }
`
